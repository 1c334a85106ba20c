package distribution

import (
	"fmt"

	"github.com/notargets/gosg/utils"
)

type Direction int

const (
	Send Direction = iota
	Receive
)

func (d Direction) String() string {
	if d == Send {
		return "send"
	}
	return "receive"
}

// Limits is an inclusive range [Start,Stop] in global element index space
type Limits struct {
	Start, Stop int
}

// Message is one directed transfer in a rank's exchange schedule: on a send
// it names the receiver, on a receive it names the sender. A Target equal to
// the executing rank marks a locally satisfiable range served by a buffer
// copy instead of a transfer.
type Message struct {
	Dir    Direction
	Target int
	Range  Limits
}

// rowDependency names a subgrid row and the sub-range of its data that a
// column band needs. Dependencies are generated in ascending row order, so
// schedules built from them are deterministic.
type rowDependency struct {
	row    int
	limits Limits
}

/*
findColumnDependencies determines, for each subgrid column, the subgrid rows
holding data its members need as input, with the exact overlapping global
index sub-range for each. Boundaries are the inclusive stop indices of each
band, so this is an interval intersection sweep over two sorted lists.
*/
func findColumnDependencies(rowBoundaries, colBoundaries []int) (deps [][]rowDependency) {
	deps = make([][]rowDependency, len(colBoundaries))

	colStart := 0
	for c, colEnd := range colBoundaries {
		rowStart := 0
		for r, rowEnd := range rowBoundaries {
			// does the row interval fall within the column interval
			if (colStart >= rowStart && colStart <= rowEnd) ||
				(rowStart >= colStart && rowStart <= colEnd) {
				deps[c] = append(deps[c], rowDependency{
					row:    r,
					limits: Limits{utils.Max(rowStart, colStart), utils.Min(rowEnd, colEnd)},
				})
			}
			rowStart = rowEnd + 1
		}
		colStart = colEnd + 1
	}
	return
}

/*
dependenciesToMessages matches column band members needing data with row
band members owning it. Every rank in a subgrid row holds identical
column-complete data after reduction, so the sender for each (receiver,
dependency) pair is drawn from the owning row by a per-row round robin
wheel, spreading outbound load evenly. A receiver whose own row owns the
data copies locally instead.

The returned message lists, indexed by rank, are deadlock free when every
rank executes its list in emitted order: the schedule is a deterministic
function of the plan computed identically everywhere, so each send is
emitted in the same global step as its matching receive.
*/
func dependenciesToMessages(colDependencies [][]rowDependency,
	rowBoundaries, colBoundaries []int) (messages [][]Message) {

	if len(colDependencies) != len(colBoundaries) {
		panic("column dependency list does not match column boundaries")
	}

	numCols := len(colBoundaries)
	wheels := make([]*RoundRobinWheel, len(rowBoundaries))
	for i := range wheels {
		wheels[i] = NewRoundRobinWheel(numCols)
	}

	messages = make([][]Message, len(rowBoundaries)*numCols)

	for c, deps := range colDependencies {
		for _, dep := range deps {
			// every rank in subgrid column c needs this row's sub-range
			for r := range rowBoundaries {
				receiverRank := r*numCols + c

				senderRank := receiverRank
				if dep.row != r {
					senderRank = dep.row*numCols + wheels[dep.row].Spin()
				}

				messages[receiverRank] = append(messages[receiverRank],
					Message{Dir: Receive, Target: senderRank, Range: dep.limits})
				messages[senderRank] = append(messages[senderRank],
					Message{Dir: Send, Target: receiverRank, Range: dep.limits})
			}
		}
	}
	return
}

// GenerateMessages maps each rank in the plan to the ordered list of
// messages that redistribute row-partitioned results into column-partitioned
// inputs. The schedule is a pure function of the plan; invoking the messages
// in list order on every rank is guaranteed not to deadlock.
func GenerateMessages(plan Plan) [][]Message {
	numCols := NumSubgridCols(len(plan))
	if len(plan)%numCols != 0 {
		panic(fmt.Errorf("plan of %d ranks does not factor into %d columns", len(plan), numCols))
	}
	numRows := len(plan) / numCols

	rowBoundaries := make([]int, numRows)
	for i := 0; i < numRows; i++ {
		rowBoundaries[i] = plan[i*numCols].RowStop
	}
	colBoundaries := make([]int, numCols)
	for i := 0; i < numCols; i++ {
		colBoundaries[i] = plan[i].ColStop
	}

	colDependencies := findColumnDependencies(rowBoundaries, colBoundaries)
	return dependenciesToMessages(colDependencies, rowBoundaries, colBoundaries)
}
