package model

import "fmt"

// WorkKind identifies which payload of a Work is set.
type WorkKind string

const (
	WorkCrime         WorkKind = "crime"
	WorkClass         WorkKind = "class"
	WorkCreateProgram WorkKind = "create-program"
	WorkGrafting      WorkKind = "grafting"
	WorkFaction       WorkKind = "faction"
	WorkCompany       WorkKind = "company"
)

// Work is the player's current task. Exactly one payload matching Kind is
// non-nil; use the New*Work constructors to build one.
type Work struct {
	Kind WorkKind `json:"kind"`

	Crime         *CrimeWork         `json:"crime,omitempty"`
	Class         *ClassWork         `json:"class,omitempty"`
	CreateProgram *CreateProgramWork `json:"createProgram,omitempty"`
	Grafting      *GraftingWork      `json:"grafting,omitempty"`
	Faction       *FactionWork       `json:"faction,omitempty"`
	Company       *CompanyWork       `json:"company,omitempty"`
}

// CrimeWork is an attempt at a crime. Units are milliseconds.
type CrimeWork struct {
	CrimeType     string  `json:"crimeType"`
	UnitCompleted float64 `json:"unitCompleted"`
	Time          float64 `json:"time"`
}

// ClassWork is a university course or gym session.
type ClassWork struct {
	// YouAreCurrently reads as a sentence fragment, e.g. "taking a Networks course".
	YouAreCurrently string `json:"youAreCurrently"`
	CyclesWorked    int    `json:"cyclesWorked"`
	// Stat is the skill trained ("hacking", "strength", ...).
	Stat        string  `json:"stat"`
	ExpPerCycle float64 `json:"expPerCycle"`
}

// CreateProgramWork is writing a program.
type CreateProgramWork struct {
	ProgramName   string  `json:"programName"`
	UnitCompleted float64 `json:"unitCompleted"`
	UnitNeeded    float64 `json:"unitNeeded"`
}

// GraftingWork is grafting an augmentation.
type GraftingWork struct {
	Augmentation  string  `json:"augmentation"`
	UnitCompleted float64 `json:"unitCompleted"`
	UnitNeeded    float64 `json:"unitNeeded"`
}

// FactionWork is working for a faction. ReputationRate is per cycle.
type FactionWork struct {
	FactionName     string  `json:"factionName"`
	FactionWorkType string  `json:"factionWorkType"`
	ReputationRate  float64 `json:"reputationRate"`
}

// CompanyWork is working a job. ReputationRate is per cycle.
type CompanyWork struct {
	CompanyName    string  `json:"companyName"`
	ReputationRate float64 `json:"reputationRate"`
}

func NewCrimeWork(w CrimeWork) *Work { return &Work{Kind: WorkCrime, Crime: &w} }

func NewClassWork(w ClassWork) *Work { return &Work{Kind: WorkClass, Class: &w} }

func NewCreateProgramWork(w CreateProgramWork) *Work {
	return &Work{Kind: WorkCreateProgram, CreateProgram: &w}
}

func NewGraftingWork(w GraftingWork) *Work { return &Work{Kind: WorkGrafting, Grafting: &w} }

func NewFactionWork(w FactionWork) *Work { return &Work{Kind: WorkFaction, Faction: &w} }

func NewCompanyWork(w CompanyWork) *Work { return &Work{Kind: WorkCompany, Company: &w} }

// Validate checks that the payload matching Kind is the only one set.
// Decoded values (save files, RPC) go through this before use.
func (w *Work) Validate() error {
	set := 0
	for _, p := range []bool{
		w.Crime != nil, w.Class != nil, w.CreateProgram != nil,
		w.Grafting != nil, w.Faction != nil, w.Company != nil,
	} {
		if p {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("work %q: %d payloads set, want 1", w.Kind, set)
	}

	var ok bool
	switch w.Kind {
	case WorkCrime:
		ok = w.Crime != nil
	case WorkClass:
		ok = w.Class != nil
	case WorkCreateProgram:
		ok = w.CreateProgram != nil
	case WorkGrafting:
		ok = w.Grafting != nil
	case WorkFaction:
		ok = w.Faction != nil
	case WorkCompany:
		ok = w.Company != nil
	default:
		return fmt.Errorf("unknown work kind %q", w.Kind)
	}
	if !ok {
		return fmt.Errorf("work %q: payload does not match kind", w.Kind)
	}
	return nil
}

// Clone returns a deep copy of w.
func (w Work) Clone() Work {
	out := Work{Kind: w.Kind}
	if w.Crime != nil {
		v := *w.Crime
		out.Crime = &v
	}
	if w.Class != nil {
		v := *w.Class
		out.Class = &v
	}
	if w.CreateProgram != nil {
		v := *w.CreateProgram
		out.CreateProgram = &v
	}
	if w.Grafting != nil {
		v := *w.Grafting
		out.Grafting = &v
	}
	if w.Faction != nil {
		v := *w.Faction
		out.Faction = &v
	}
	if w.Company != nil {
		v := *w.Company
		out.Company = &v
	}
	return out
}

// percent returns done/need as a percentage, or 0 when need is not positive.
func percent(done, need float64) float64 {
	if need <= 0 {
		return 0
	}
	return done / need * 100
}

// Percent is how far along the crime attempt is.
func (c *CrimeWork) Percent() float64 { return percent(c.UnitCompleted, c.Time) }

// Percent is how much of the program has been written.
func (c *CreateProgramWork) Percent() float64 { return percent(c.UnitCompleted, c.UnitNeeded) }

// Percent is how much of the graft is done.
func (g *GraftingWork) Percent() float64 { return percent(g.UnitCompleted, g.UnitNeeded) }
