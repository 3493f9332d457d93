package filter

import (
	"math"
	"sync"
)

// kernelReach is the kernel half-width in standard deviations.
const kernelReach = 3

// GaussianKernel returns 2·ceil(3σ)+1 normalized Gaussian taps. sigma <= 0
// gives the identity kernel.
func GaussianKernel(sigma float64) []float32 {
	if !(sigma > 0) {
		return []float32{1}
	}
	half := int(math.Ceil(sigma * kernelReach))
	taps := make([]float64, 2*half+1)
	var sum float64
	for i := range taps {
		d := float64(i - half)
		taps[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += taps[i]
	}
	k := make([]float32, len(taps))
	for i, v := range taps {
		k[i] = float32(v / sum)
	}
	return k
}

// kernels memoizes Gaussian kernels by sigma in hundredths. Scenes reuse a
// handful of sigmas (glow, bloom levels, streak), so the table stays small;
// it is reset if a caller sweeps many values.
var kernels = struct {
	sync.Mutex
	m map[int][]float32
}{m: make(map[int][]float32)}

const maxCachedKernels = 64

// CachedGaussianKernel returns a shared Gaussian kernel for sigma, rounded
// to 0.01. The slice must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	kernels.Lock()
	defer kernels.Unlock()
	if k, ok := kernels.m[key]; ok {
		return k
	}
	if len(kernels.m) >= maxCachedKernels {
		clear(kernels.m)
	}
	k := GaussianKernel(float64(key) / 100)
	kernels.m[key] = k
	return k
}
