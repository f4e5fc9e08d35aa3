package utils_test

import (
	"testing"

	"github.com/jrsteele09/survey-admin/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPointers(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, 0, utils.Value[int](nil))
	require.Equal(t, "x", utils.Value(utils.Ptr("x")))

	a := 1
	p := utils.Ptr(a)
	a = 2
	require.Equal(t, 1, *p)
}
