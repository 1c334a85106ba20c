package distribution

import (
	"github.com/notargets/gosg/comms"
)

// Context carries one rank's communicator into every distributed operation.
// It is constructed once at startup and passed explicitly; there is no
// process-wide communicator singleton.
type Context struct {
	comm *comms.Comm
}

func NewContext(comm *comms.Comm) *Context {
	return &Context{comm: comm}
}

func (ctx *Context) Rank() int { return ctx.comm.Rank() }
func (ctx *Context) Size() int { return ctx.comm.Size() }

// rowGroup returns the ranks sharing the caller's subgrid row, in ascending
// order, which every member computes identically
func (ctx *Context) rowGroup(plan Plan) []int {
	var (
		numCols = NumSubgridCols(len(plan))
		myRow   = ctx.Rank() / numCols
		group   = make([]int, numCols)
	)
	for i := range group {
		group[i] = myRow*numCols + i
	}
	return group
}

// allGroup returns every rank in the cluster
func (ctx *Context) allGroup() []int {
	group := make([]int, ctx.Size())
	for i := range group {
		group[i] = i
	}
	return group
}
