package resync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatFilter(t *testing.T) {
	keep := []Range{{Start: 0, End: 1.5}, {Start: 3, End: 6}}

	t.Run("video and audio", func(t *testing.T) {
		filter, maps := concatFilter(keep, true, true)

		assert.Contains(t, filter, "[0:v]trim=start=0.000000:end=1.500000,setpts=PTS-STARTPTS[v0];")
		assert.Contains(t, filter, "[0:a]atrim=start=3.000000:end=6.000000,asetpts=PTS-STARTPTS[a1];")
		assert.Contains(t, filter, "[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]")
		assert.Equal(t, []string{"[outv]", "[outa]"}, maps)
	})

	t.Run("audio only", func(t *testing.T) {
		// narration files have no video stream; the graph must not
		// reference [0:v]
		filter, maps := concatFilter(keep, false, true)

		assert.NotContains(t, filter, "[0:v]")
		assert.NotContains(t, filter, "trim=start=0.000000:end=1.500000,setpts")
		assert.Contains(t, filter, "[0:a]atrim=start=0.000000:end=1.500000,asetpts=PTS-STARTPTS[a0];")
		assert.Contains(t, filter, "[a0][a1]concat=n=2:v=0:a=1[outa]")
		assert.Equal(t, []string{"[outa]"}, maps)
	})

	t.Run("video only", func(t *testing.T) {
		filter, maps := concatFilter(keep, true, false)

		assert.NotContains(t, filter, "[0:a]")
		assert.Contains(t, filter, "[v0][v1]concat=n=2:v=1:a=0[outv]")
		assert.Equal(t, []string{"[outv]"}, maps)
	})
}
