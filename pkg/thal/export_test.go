package thal

import "github.com/andrew-torda/thal/pkg/nnparam"

// StrandTerm is the concentration term that goes into the melting
// temperature of a dimer of o1 and o2.
func StrandTerm(o1, o2 string) float64 {
	return newEngine(nnparam.Default(), []byte(o1), []byte(o2), DefaultArgs()).rc
}

var SaltCorrectS = saltCorrectS
var Max5 = max5
var Equal = equal
