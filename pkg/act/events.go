package act

import "fmt"

// Event is a typed semantic fact extracted from an element's text. The set
// of variants is closed; consumers dispatch with a type switch.
type Event interface{ isEvent() }

// Date is a civil date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Effective is the value of an enforcement date: an absolute date, a day
// count after publication, or a day of a later month after publication.
type Effective interface{ isEffective() }

// AbsoluteDate is an enforcement date given as a civil date.
type AbsoluteDate Date

func (AbsoluteDate) isEffective() {}

// DaysAfterPublication means "the Nth day following publication".
// "The day following publication" is Days == 1.
type DaysAfterPublication struct {
	Days int `json:"days"`
}

func (DaysAfterPublication) isEffective() {}

// DayInMonthAfterPublication means "the Dth day of the Nth month following
// publication".
type DayInMonthAfterPublication struct {
	Months int `json:"months"`
	Day    int `json:"day"`
}

func (DayInMonthAfterPublication) isEffective() {}

// EnforcementDate states when a provision enters into force. A nil
// Position means the whole act.
type EnforcementDate struct {
	Position  *Reference `json:"position,omitempty"`
	Effective Effective  `json:"effective"`
}

func (EnforcementDate) isEvent() {}

// TextAmendment replaces a literal text fragment at a position.
type TextAmendment struct {
	Position    Reference `json:"position"`
	Original    string    `json:"original"`
	Replacement string    `json:"replacement"`
}

func (TextAmendment) isEvent() {}

// Repeal removes a provision, or, when Text is set, only that literal
// fragment of it.
type Repeal struct {
	Position Reference `json:"position"`
	Text     string    `json:"text,omitempty"`
}

func (Repeal) isEvent() {}

// BlockAmendment describes a quoted replacement or insertion whose target
// location is Position. ExpectedKind is the element kind the quoted text
// must parse as, or Structural is set when the target is a divider-led
// range; Inserted distinguishes "egészül ki" insertions from
// replacements. Replaces lists further positions removed by the amendment,
// when the sentence names any.
type BlockAmendment struct {
	Position     Reference       `json:"position"`
	ExpectedKind Kind            `json:"expected_kind"`
	Structural   *StructuralKind `json:"structural,omitempty"`
	Inserted     bool            `json:"inserted,omitempty"`
	Replaces     []Reference     `json:"replaces,omitempty"`
}

func (BlockAmendment) isEvent() {}
