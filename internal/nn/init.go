package nn

import (
	"math"
	"math/rand"

	"github.com/siddhantmittal7/equivariant-transformers/internal/tensor"
)

// Xavier draws weights from the Glorot uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))), which keeps activation
// variance roughly constant across layers.
func Xavier(fanIn, fanOut int, shape tensor.Shape) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = (rand.Float64()*2 - 1) * bound
	}
	return t
}
