package backend

import "regexp"

var (
	keepInstance  = regexp.MustCompile(`end else begin\n\n(\s*?)memcore`)
	keepOutputReg = regexp.MustCompile(`\n(\s*?)output reg`)
)

// AddKeepAttributes marks bank instances opening an else branch and every
// registered output with a preserve attribute so synthesis keeps the relay
// registers. It is a pure text transform over rendered source.
func AddKeepAttributes(src string) string {
	src = keepInstance.ReplaceAllString(src, "end else begin\n\n${1}(* keep = \"true\" *)\n${1}memcore")
	return keepOutputReg.ReplaceAllString(src, "\n${1}(* keep = \"true\" *)\n${1}output reg")
}
