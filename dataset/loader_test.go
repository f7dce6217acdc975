package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// writeCSV writes a digit file with a header and one row per (label, fill)
// pair, using fill for every pixel of the row.
func writeCSV(t *testing.T, rows [][2]float64) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("label")
	for i := 0; i < PixelCount; i++ {
		fmt.Fprintf(&sb, ",pixel%d", i)
	}
	sb.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&sb, "%g", r[0])
		for i := 0; i < PixelCount; i++ {
			fmt.Fprintf(&sb, ",%g", r[1])
		}
		sb.WriteByte('\n')
	}

	path := filepath.Join(t.TempDir(), "digits.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestLoadDigits_ReadsRowsInOrder(t *testing.T) {
	path := writeCSV(t, [][2]float64{{7, 0.1}, {2, 0.5}, {0, 255}})

	digits, err := LoadDigits(path, true, ',')
	require.NoError(t, err)
	require.Len(t, digits, 3)

	assert.Equal(t, []float64{7, 2, 0}, []float64{digits[0].Label, digits[1].Label, digits[2].Label})
	for _, d := range digits {
		assert.Len(t, d.Pixels, PixelCount)
	}
	assert.Equal(t, 0.5, digits[1].Pixels[0])
	assert.Equal(t, 0.5, digits[1].Pixels[PixelCount-1])
}

func TestLoadDigits_Deterministic(t *testing.T) {
	path := writeCSV(t, [][2]float64{{3, 1}, {1, 2}, {4, 3}, {1, 4}, {5, 5}})

	first, err := LoadDigits(path, true, ',')
	require.NoError(t, err)
	second, err := LoadDigits(path, true, ',')
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadDigits_MissingFile(t *testing.T) {
	_, err := LoadDigits(filepath.Join(t.TempDir(), "nope.csv"), true, ',')
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDigits_WrongFieldCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("header\n1,2,3\n"), 0o644))

	_, err := LoadDigits(path, true, ',')
	require.Error(t, err)

	var formatErr *errors.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Row)
}

func TestLoadDigits_NonNumericField(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("5")
	for i := 0; i < PixelCount; i++ {
		sb.WriteString(",0")
	}
	line := sb.String()
	// Corrupt pixel 2 (field index 3).
	bad := strings.Replace(line, "5,0,0,0", "5,0,0,x", 1)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(bad+"\n"), 0o644))

	_, err := LoadDigits(path, false, ',')
	require.Error(t, err)

	var formatErr *errors.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 1, formatErr.Row)
	assert.Equal(t, 3, formatErr.Field)
}

func TestLoadDigits_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := LoadDigits(path, true, ',')
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestMatrices(t *testing.T) {
	path := writeCSV(t, [][2]float64{{9, 0.25}, {4, 0.75}})
	digits, err := LoadDigits(path, true, ',')
	require.NoError(t, err)

	X, y := Matrices(digits)
	r, c := X.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, PixelCount, c)
	assert.Equal(t, 9.0, y.AtVec(0))
	assert.Equal(t, 4.0, y.AtVec(1))
	assert.Equal(t, 0.75, X.At(1, 100))
}

func TestSampleAt(t *testing.T) {
	digits := []Digit{{Label: 0}, {Label: 1}, {Label: 2}, {Label: 3}}

	picked, err := SampleAt(digits, []int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, 3.0, picked[0].Label)
	assert.Equal(t, 1.0, picked[1].Label)

	_, err = SampleAt(digits, []int{4})
	require.Error(t, err)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}
