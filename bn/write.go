package bn

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Write serializes the network in the BIF text format, in a layout Parse
// reads back unchanged: variables with parents use the per-assignment row
// form, variables without parents the "table" form.
func Write(w io.Writer, net *Network) error {
	if err := net.Validate(); err != nil {
		return errors.Wrap(err, "refusing to write invalid network")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("network " + net.Name + " {}\n")
	for _, v := range net.Variables {
		states := net.States[v]
		bw.WriteString("variable " + v + " {\n")
		bw.WriteString("  type discrete [ " + strconv.Itoa(len(states)) + " ] { ")
		for i, s := range states {
			if i > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(s)
		}
		bw.WriteString(" };\n}\n")
	}
	for _, v := range net.Variables {
		if err := writeProbability(bw, net, v); err != nil {
			return err
		}
	}
	return errors.Wrap(bw.Flush(), "could not write BIF output")
}

func writeProbability(bw *bufio.Writer, net *Network, v string) error {
	parents := net.Parents[v]
	card := len(net.States[v])
	values := net.Values[v]

	bw.WriteString("probability ( " + v)
	for i, par := range parents {
		if i == 0 {
			bw.WriteString(" | " + par)
		} else {
			bw.WriteString(", " + par)
		}
	}
	bw.WriteString(" ) {\n")

	if len(parents) == 0 {
		bw.WriteString("  table ")
		for k := 0; k < card; k++ {
			if k > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(formatProb(values[k]))
		}
		bw.WriteString(";\n}\n")
		return nil
	}

	cols := len(values) / card
	digits := make([]int, len(parents))
	for col := 0; col < cols; col++ {
		bw.WriteString("  (")
		for i, par := range parents {
			if i > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(net.States[par][digits[i]])
		}
		bw.WriteString(")")
		for k := 0; k < card; k++ {
			if k == 0 {
				bw.WriteString(" ")
			} else {
				bw.WriteString(", ")
			}
			bw.WriteString(formatProb(values[col*card+k]))
		}
		bw.WriteString(";\n")
		// advance the parent assignment, last parent fastest
		for i := len(digits) - 1; i >= 0; i-- {
			digits[i]++
			if digits[i] < len(net.States[parents[i]]) {
				break
			}
			digits[i] = 0
		}
	}
	bw.WriteString("}\n")
	return nil
}

func formatProb(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
