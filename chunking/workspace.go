package chunking

import (
	"github.com/notargets/gosg/distribution"
	"github.com/notargets/gosg/pde"
)

/*
HostWorkspace holds the per-rank solution buffers for the explicit time
loop. The input side (X, XOrig, the stage results) is sized to the rank's
column band; the output side (Fx, ReducedFx, ScaledSource) to its row band.
The workspace is owned by the driver and passed by reference into the
apply, reduce and exchange routines, which never retain it.
*/
type HostWorkspace struct {
	X, XOrig         []float64 // column-band solution and its RK stage origin
	Result1          []float64
	Result2          []float64
	Result3          []float64
	Fx, ReducedFx    []float64 // row-band apply output and its row reduction
	ScaledSource     []float64
	colSize, rowSize int
}

func NewHostWorkspace(p *pde.PDE, sub distribution.Subgrid) (ws *HostWorkspace) {
	var (
		elemSize = p.ElementSegmentSize()
		colSize  = sub.NCols() * elemSize
		rowSize  = sub.NRows() * elemSize
	)
	ws = &HostWorkspace{
		X:            make([]float64, colSize),
		XOrig:        make([]float64, colSize),
		Result1:      make([]float64, colSize),
		Result2:      make([]float64, colSize),
		Result3:      make([]float64, colSize),
		Fx:           make([]float64, rowSize),
		ReducedFx:    make([]float64, rowSize),
		ScaledSource: make([]float64, rowSize),
		colSize:      colSize,
		rowSize:      rowSize,
	}
	return
}

// SizeMB reports the workspace footprint for the setup banner
func (ws *HostWorkspace) SizeMB() float64 {
	total := 5*ws.colSize + 3*ws.rowSize
	return float64(total) * 8 * 1e-6
}
