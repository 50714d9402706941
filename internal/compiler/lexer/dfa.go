package lexer

type charClass int

const (
	classLetter charClass = iota
	classExp              // e or E
	classDigit
	classUnderscore
	classDot
	classSign
	classOther
	numClasses
)

type dfaState int

const (
	stateStart dfaState = iota
	stateIdent
	stateInt
	stateIntDot
	stateFrac
	stateExp
	stateExpSign
	stateExpDigits
	stateDead
	numStates
)

// transitions is the word automaton. Rows are states, columns are
// character classes.
var transitions = [numStates][numClasses]dfaState{
	stateStart:     {stateIdent, stateIdent, stateInt, stateIdent, stateDead, stateDead, stateDead},
	stateIdent:     {stateIdent, stateIdent, stateIdent, stateIdent, stateDead, stateDead, stateDead},
	stateInt:       {stateDead, stateExp, stateInt, stateDead, stateIntDot, stateDead, stateDead},
	stateIntDot:    {stateDead, stateDead, stateFrac, stateDead, stateDead, stateDead, stateDead},
	stateFrac:      {stateDead, stateExp, stateFrac, stateDead, stateDead, stateDead, stateDead},
	stateExp:       {stateDead, stateDead, stateExpDigits, stateDead, stateDead, stateExpSign, stateDead},
	stateExpSign:   {stateDead, stateDead, stateExpDigits, stateDead, stateDead, stateDead, stateDead},
	stateExpDigits: {stateDead, stateDead, stateExpDigits, stateDead, stateDead, stateDead, stateDead},
	stateDead:      {stateDead, stateDead, stateDead, stateDead, stateDead, stateDead, stateDead},
}

var accepting = [numStates]bool{
	stateIdent:     true,
	stateInt:       true,
	stateFrac:      true,
	stateExpDigits: true,
}

func classify(ch byte) charClass {
	switch {
	case ch == 'e' || ch == 'E':
		return classExp
	case isLetter(ch):
		return classLetter
	case isDigit(ch):
		return classDigit
	case ch == '_':
		return classUnderscore
	case ch == '.':
		return classDot
	case ch == '+' || ch == '-':
		return classSign
	}
	return classOther
}

// scanWord runs the automaton over s with maximal munch and returns the
// length of the longest accepted prefix and the state it was accepted in.
// A zero length means no prefix was accepted.
func scanWord(s string) (int, dfaState) {
	state := stateStart
	lastLen, lastState := 0, stateDead
	for i := 0; i < len(s); i++ {
		state = transitions[state][classify(s[i])]
		if state == stateDead {
			break
		}
		if accepting[state] {
			lastLen, lastState = i+1, state
		}
	}
	return lastLen, lastState
}
