package dialogue

// Verdict is the user's answer to the confirmation question.
type Verdict int

const (
	verdictInvalid Verdict = iota
	VerdictYes
	VerdictNo
	VerdictUnknown
)

func (v Verdict) String() string {
	switch v {
	case VerdictYes:
		return "yes"
	case VerdictNo:
		return "no"
	case VerdictUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Reason says why a dialogue ended without a definite answer.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonRecognition Reason = "recognition failure"
	ReasonTimeout     Reason = "timeout"
	ReasonListen      Reason = "recognition error"
	ReasonCancelled   Reason = "cancelled"
)

// Outcome is the single result of a confirmation dialogue.
//
// The zero Outcome is invalid. Use Yes, No or Unknown to build one.
type Outcome struct {
	Verdict Verdict `json:"verdict"`
	Reason  Reason  `json:"reason,omitempty"`

	// Transcript is the recognized document text that was read back.
	Transcript string `json:"transcript,omitempty"`

	// Heard is the last final speech transcript, classified or not.
	Heard string `json:"heard,omitempty"`

	// Err is the underlying failure for ReasonRecognition and ReasonListen.
	Err error `json:"-"`
}

// Yes is an affirmative outcome.
func Yes(transcript, heard string) Outcome {
	return Outcome{Verdict: VerdictYes, Transcript: transcript, Heard: heard}
}

// No is a negative outcome.
func No(transcript, heard string) Outcome {
	return Outcome{Verdict: VerdictNo, Transcript: transcript, Heard: heard}
}

// Unknown is an outcome without a definite answer.
func Unknown(reason Reason) Outcome {
	return Outcome{Verdict: VerdictUnknown, Reason: reason}
}

// Valid reports whether o was produced by one of the constructors.
func (o Outcome) Valid() bool {
	switch o.Verdict {
	case VerdictYes, VerdictNo:
		return o.Reason == ReasonNone
	case VerdictUnknown:
		return o.Reason != ReasonNone
	default:
		return false
	}
}

func (o Outcome) with(transcript, heard string, err error) Outcome {
	o.Transcript = transcript
	o.Heard = heard
	o.Err = err
	return o
}
