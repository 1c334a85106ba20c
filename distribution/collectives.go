package distribution

import (
	"fmt"

	"github.com/notargets/gosg/utils"
)

// exchanged sub-ranges all travel under one fixed tag; the schedule order,
// not the tag, is what pairs sends with receives
const tagExchange = 0

// ReduceResults sums source across all ranks sharing the caller's subgrid
// row and stores the total in dest on each of them. Under a single-rank
// plan this degenerates to a copy.
func ReduceResults(ctx *Context, source, dest []float64, plan Plan) {
	if len(source) != len(dest) {
		panic(fmt.Errorf("reduce source length %d != dest length %d", len(source), len(dest)))
	}
	if ctx.Rank() >= len(plan) {
		panic(fmt.Errorf("rank %d not in plan of size %d", ctx.Rank(), len(plan)))
	}

	if len(plan) == 1 {
		utils.VecCopy(source, dest)
		return
	}
	ctx.comm.AllReduceSum(ctx.rowGroup(plan), source, dest)
}

// ExchangeResults executes the caller's precomputed message list in emitted
// order, redistributing the row-partitioned source into the
// column-partitioned dest. segmentSize is the degrees-of-freedom count per
// element. Under a single-rank plan this degenerates to a copy.
func ExchangeResults(ctx *Context, source, dest []float64, segmentSize int, plan Plan) {
	if segmentSize < 1 {
		panic(fmt.Errorf("segment size must be positive, got %d", segmentSize))
	}
	if ctx.Rank() >= len(plan) {
		panic(fmt.Errorf("rank %d not in plan of size %d", ctx.Rank(), len(plan)))
	}

	if len(plan) == 1 {
		utils.VecCopy(source, dest)
		return
	}

	var (
		myRank    = ctx.Rank()
		mySubgrid = plan[myRank]
		messages  = GenerateMessages(plan)[myRank]
	)
	for _, message := range messages {
		if message.Target == myRank {
			copyToInput(source, dest, mySubgrid, message, segmentSize)
			continue
		}
		dispatchMessage(ctx, source, dest, mySubgrid, message, segmentSize)
	}
}

// copyToInput serves a locally satisfiable range: the send side of the
// matched pair copies its output window straight into its input window,
// and the matching receive entry is a no-op
func copyToInput(source, dest []float64, myGrid Subgrid, message Message, segmentSize int) {
	if message.Dir != Send {
		return
	}
	var (
		outputStart = myGrid.ToLocalRow(message.Range.Start) * segmentSize
		outputEnd   = (myGrid.ToLocalRow(message.Range.Stop) + 1) * segmentSize
		inputStart  = myGrid.ToLocalCol(message.Range.Start) * segmentSize
		inputEnd    = (myGrid.ToLocalCol(message.Range.Stop) + 1) * segmentSize
	)
	utils.VecCopy(source[outputStart:outputEnd], dest[inputStart:inputEnd])
}

// dispatchMessage moves one sub-range across the transport, translating the
// global element range into this rank's local row numbering on the send
// side and local column numbering on the receive side
func dispatchMessage(ctx *Context, source, dest []float64, myGrid Subgrid,
	message Message, segmentSize int) {

	if message.Dir == Send {
		var (
			outputStart = myGrid.ToLocalRow(message.Range.Start) * segmentSize
			outputEnd   = (myGrid.ToLocalRow(message.Range.Stop) + 1) * segmentSize
		)
		ctx.comm.Send(source[outputStart:outputEnd], message.Target, tagExchange)
	} else {
		var (
			inputStart = myGrid.ToLocalCol(message.Range.Start) * segmentSize
			inputEnd   = (myGrid.ToLocalCol(message.Range.Stop) + 1) * segmentSize
		)
		ctx.comm.Recv(dest[inputStart:inputEnd], message.Target)
	}
}

// GatherResults collects the final column-partitioned solution onto rank 0.
// Only the first subgrid row participates: its column bands cover the whole
// vector. Every rank gets its own results back; rank 0 gets the complete
// assembled vector.
func GatherResults(ctx *Context, myResults []float64, plan Plan, segmentSize int) []float64 {
	ownResults := func() []float64 {
		own := make([]float64, len(myResults))
		copy(own, myResults)
		return own
	}

	if len(plan) == 1 {
		return ownResults()
	}

	var (
		myRank  = ctx.Rank()
		numCols = NumSubgridCols(len(plan))
	)
	if myRank >= numCols {
		return ownResults()
	}

	if myRank != 0 {
		ctx.comm.Send(myResults, 0, tagExchange)
		return ownResults()
	}

	total := len(myResults)
	for i := 1; i < numCols; i++ {
		total += plan[i].NCols() * segmentSize
	}
	results := make([]float64, total)
	copy(results, myResults)

	offset := len(myResults)
	for i := 1; i < numCols; i++ {
		length := plan[i].NCols() * segmentSize
		ctx.comm.Recv(results[offset:offset+length], i)
		offset += length
	}
	return results
}

// GatherErrors concentrates each rank's (rmse, relative) error pair on rank
// 0 for reporting. Rank 0 gets one entry per rank in rank order; other
// ranks get their own values back.
func GatherErrors(ctx *Context, rootMeanSquared, relative float64) (rmse, rel []float64) {
	gathered := ctx.comm.Gather(ctx.allGroup(), []float64{rootMeanSquared, relative})
	if gathered == nil {
		return []float64{rootMeanSquared}, []float64{relative}
	}
	rmse = make([]float64, ctx.Size())
	rel = make([]float64, ctx.Size())
	for i := 0; i < ctx.Size(); i++ {
		rmse[i] = gathered[2*i]
		rel[i] = gathered[2*i+1]
	}
	return
}
