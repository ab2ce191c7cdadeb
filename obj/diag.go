package obj

// Diagnostic is a non-fatal assembly or link problem, optionally tied
// to a source line. Line numbers start at 1; zero means no particular
// line.
type Diagnostic struct {
	LineNo  int
	Message string
}

func (d Diagnostic) String() string {
	if d.LineNo == 0 {
		return d.Message
	}
	return f("line %d: %v", d.LineNo, d.Message)
}
