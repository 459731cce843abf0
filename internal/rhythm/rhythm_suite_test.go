package rhythm_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRhythm(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rhythm Suite")
}
