// Package assembly evaluates a set of elements in parallel, one kernel per
// worker, and scatters their blocks into a global sparse tangent and
// internal force vector.
package assembly

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/gocsm/elasticity"
	"github.com/notargets/gocsm/element"
	"github.com/notargets/gocsm/utils"
)

// Element is an element whose accumulated blocks can be read back after evaluation
type Element interface {
	element.Element
	Kab(iNode, jNode int) utils.Tensor3
	Ksab(iNode, jNode int) float64
	Kkab(iNode, jNode int) utils.Tensor3
	KtA(iNode int) [3]float64
}

// KernelFactory builds one kernel per worker
type KernelFactory func() (*elasticity.NonlinearKernel, error)

type Assembler struct {
	NDim           int
	NumNodes       int
	ParallelDegree int // values < 1 use one worker per CPU
	MeanDilatation bool
	NewKernel      KernelFactory
	Metrics        *Metrics
}

// System is the assembled global tangent and internal force vector, nDim dofs per node
type System struct {
	K          utils.DOK
	Residual   []float64
	Dilatation []elasticity.MeanDilatation // per element, zero unless MeanDilatation is set
}

// FromSolids adapts concrete solids to the assembler's element list
func FromSolids(solids []*element.Solid) (elements []Element) {
	elements = make([]Element, len(solids))
	for k, s := range solids {
		elements[k] = s
	}
	return
}

// Run evaluates every element, then scatters in element order. The first element error cancels the
// remaining workers and is returned; no System is produced in that case.
func (as *Assembler) Run(ctx context.Context, elements []Element, EToV [][]int) (sys *System, err error) {
	if err = as.check(elements, EToV); err != nil {
		return
	}
	var (
		nElements  = len(elements)
		dilatation = make([]elasticity.MeanDilatation, nElements)
	)
	if nElements > 0 {
		pm := utils.NewPartitionMap(as.ParallelDegree, nElements)
		g, gCtx := errgroup.WithContext(ctx)
		for np := 0; np < pm.ParallelDegree; np++ {
			if pm.GetBucketDimension(np) == 0 {
				continue
			}
			np := np
			g.Go(func() error {
				return as.worker(gCtx, pm, np, elements, dilatation)
			})
		}
		if err = g.Wait(); err != nil {
			return
		}
	}
	sys = as.scatter(elements, EToV)
	sys.Dilatation = dilatation
	return
}

// worker evaluates the elements of bucket np. A failed element is reported with the bucket that owns it.
func (as *Assembler) worker(ctx context.Context, pm *utils.PartitionMap, np int,
	elements []Element, dilatation []elasticity.MeanDilatation) (err error) {
	var (
		k          *elasticity.NonlinearKernel
		kMin, kMax = pm.GetBucketRange(np)
	)
	if k, err = as.NewKernel(); err != nil {
		return
	}
	for e := kMin; e < kMax; e++ {
		if err = ctx.Err(); err != nil {
			as.Metrics.observe(0, err)
			return
		}
		start := time.Now()
		dilatation[e], err = k.Evaluate(elements[e], as.MeanDilatation)
		as.Metrics.observe(time.Since(start).Seconds(), err)
		if err != nil {
			bn, bMin, bMax := pm.GetBucket(e)
			return fmt.Errorf("worker %d, elements [%d, %d), element %d: %w",
				bn, bMin, bMax, elements[e].ID(), err)
		}
	}
	return
}

func (as *Assembler) check(elements []Element, EToV [][]int) (err error) {
	if as.NDim != 2 && as.NDim != 3 {
		return fmt.Errorf("%w: assembler nDim = %d", utils.ErrDimension, as.NDim)
	}
	if as.NewKernel == nil {
		return fmt.Errorf("assembler needs a kernel factory")
	}
	if len(EToV) != len(elements) {
		return fmt.Errorf("%w: %d elements, %d connectivity entries",
			utils.ErrDimension, len(elements), len(EToV))
	}
	for k, el := range elements {
		if len(EToV[k]) != el.NNodes() {
			return fmt.Errorf("%w: element %d has %d nodes, connectivity lists %d",
				utils.ErrDimension, el.ID(), el.NNodes(), len(EToV[k]))
		}
		for _, node := range EToV[k] {
			if node < 0 || node >= as.NumNodes {
				return fmt.Errorf("%w: element %d references node %d, mesh has %d",
					utils.ErrDimension, el.ID(), node, as.NumNodes)
			}
		}
	}
	return
}

// scatter adds Kab + Ks.I (+ Kk) and the internal forces of each element into the global system
func (as *Assembler) scatter(elements []Element, EToV [][]int) (sys *System) {
	var (
		nDim = as.NDim
		nDof = nDim * as.NumNodes
	)
	sys = &System{
		K:        utils.NewDOK(nDof, nDof),
		Residual: make([]float64, nDof),
	}
	for k, el := range elements {
		verts := EToV[k]
		for a, ga := range verts {
			f := el.KtA(a)
			for i := 0; i < nDim; i++ {
				sys.Residual[ga*nDim+i] += f[i]
			}
			for b, gb := range verts {
				var (
					Kab = el.Kab(a, b)
					Ks  = el.Ksab(a, b)
					Kk  utils.Tensor3
				)
				if as.MeanDilatation {
					Kk = el.Kkab(a, b)
				}
				for i := 0; i < nDim; i++ {
					for j := 0; j < nDim; j++ {
						val := Kab[i][j] + Kk[i][j]
						if i == j {
							val += Ks
						}
						sys.K.AddAt(ga*nDim+i, gb*nDim+j, val)
					}
				}
			}
		}
	}
	sys.K.SetReadOnly("K")
	as.Metrics.setNonZeros(sys.K.NNZ())
	return
}
