package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignInvariants(t *testing.T) {
	powersOfTwo := []int{1, 2, 4, 8, 16}
	for p := 0; p < 40; p++ {
		for _, a := range powersOfTwo {
			q := align(p, a)
			assert.GreaterOrEqualf(t, q, p, "align(%d,%d)", p, a)
			assert.Lessf(t, q-p, a, "align(%d,%d) pad too large", p, a)
			assert.Zerof(t, q%a, "align(%d,%d) not a multiple of a", p, a)
		}
	}
}

func TestAlignAfterInvariants(t *testing.T) {
	powersOfTwo := []int{1, 2, 4, 8, 16}
	for p := 0; p < 40; p++ {
		for _, n := range powersOfTwo {
			for _, a := range powersOfTwo {
				q := alignAfter(p, n, a)
				m := a
				if n > m {
					m = n
				}
				assert.GreaterOrEqualf(t, q, p, "alignAfter(%d,%d,%d)", p, n, a)
				assert.Lessf(t, q-p, m, "alignAfter(%d,%d,%d) pad too large", p, n, a)
				assert.Zerof(t, (q+n)%m, "alignAfter(%d,%d,%d) post-write position not aligned", p, n, a)
			}
		}
	}
}

func TestAlignZeroIsNoop(t *testing.T) {
	assert.Equal(t, 0, align(0, 8))
	assert.Equal(t, 4, alignAfter(0, 4, 8))
}
