package handlecheck_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/joshuapare/splicekit/analysis/handlecheck"
)

func Test(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, handlecheck.Analyzer, "a")
}
