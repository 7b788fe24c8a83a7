package astro

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are currently supported in Cosmographia trajectory types")
	}
	return nil
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// NewCgCatalog returns a catalog with one spacecraft item reading the xyzv source file.
// Only GCRF states are supported, which Cosmographia calls ICRF.
func NewCgCatalog(name, source string, center Body, start, end time.Time) *CgCatalog {
	color := []float64{0.6, 1, 1}
	item := &CgItems{
		Class:           "spacecraft",
		Name:            name,
		StartTime:       start.UTC().Format(time.RFC3339),
		EndTime:         end.UTC().Format(time.RFC3339),
		Center:          center.Name,
		TrajectoryFrame: "ICRF",
		Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: source},
		Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot:  &CgTrajectoryPlot{Color: color, LineWidth: 1, Lead: "0 d", SampleCount: 10, Duration: fmt.Sprintf("%d d", int(end.Sub(start).Hours()/24+1))},
	}
	return &CgCatalog{Version: "1.0", Name: name, Items: []*CgItems{item}}
}

// WriteJSON writes the catalog.
func (c *CgCatalog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// CgInterpolatedState is one xyzv record: a TT Julian date, km and km/s.
type CgInterpolatedState struct {
	JD       float64
	Position [3]float64
	Velocity [3]float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("%w: expected 7 fields, got %d", ErrInvalidArgument, len(record))
	}
	vals := make([]float64, 7)
	for j, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		vals[j] = val
	}
	i.JD = vals[0]
	copy(i.Position[:], vals[1:4])
	copy(i.Velocity[:], vals[4:7])
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%.9f %f %f %f %.9f %.9f %.9f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// State returns the GCRF state of this record.
func (i *CgInterpolatedState) State() (State, error) {
	// TT to UTC: the leap seconds of the UTC day are good enough at this resolution.
	approx := julian.JDToTime(i.JD)
	dt := julian.JDToTime(i.JD - (frame.TAIMinusUTC(approx)+32.184)/86400).Round(time.Millisecond)
	return NewState(dt, NewPosition(i.Position, Kilometer, frame.GCRF), NewVelocity(i.Velocity, KilometerPerSecond, frame.GCRF))
}

// ParseInterpolatedStates reads xyzv records, skipping comments and blank lines.
func ParseInterpolatedStates(r io.Reader) ([]CgInterpolatedState, error) {
	var states []CgInterpolatedState
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var state CgInterpolatedState
		if err := state.FromText(strings.Fields(line)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		states = append(states, state)
	}
	return states, scanner.Err()
}

// WriteCosmographia writes the states as xyzv records. States must be in the GCRF.
func WriteCosmographia(w io.Writer, states []State) error {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TT Julian date
#   Position in km
#   Velocity in km/sec
`, time.Now().UTC()); err != nil {
		return err
	}
	for n, s := range states {
		if !s.IsDefined() {
			return fmt.Errorf("state #%d: %w", n, ErrUndefinedState)
		}
		if s.Frame() != frame.GCRF {
			return fmt.Errorf("state #%d: %w: %s is not GCRF", n, ErrFrameMismatch, s.Frame())
		}
		r, v := s.inSI()
		rec := CgInterpolatedState{JD: frame.JulianDateTT(s.instant), Position: scale(r, 1e-3), Velocity: scale(v, 1e-3)}
		if _, err := fmt.Fprintln(w, rec.ToText()); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"epoch", "frame", "x", "y", "z", "vx", "vy", "vz"}

// WriteStatesCSV writes the states in meters and meters per second.
func WriteStatesCSV(w io.Writer, states []State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for n, s := range states {
		if !s.IsDefined() {
			return fmt.Errorf("state #%d: %w", n, ErrUndefinedState)
		}
		r, v := s.inSI()
		record := []string{s.instant.UTC().Format(time.RFC3339Nano), s.Frame().String()}
		for _, x := range append(r[:], v[:]...) {
			record = append(record, strconv.FormatFloat(x, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadStatesCSV reads states written by WriteStatesCSV.
func ReadStatesCSV(r io.Reader) ([]State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || records[0][0] != csvHeader[0] {
		return nil, fmt.Errorf("%w: missing CSV header", ErrInvalidArgument)
	}
	states := make([]State, 0, len(records)-1)
	for n, record := range records[1:] {
		dt, err := time.Parse(time.RFC3339Nano, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		f, err := frame.FromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		var vals [6]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+2], 64); err != nil {
				return nil, fmt.Errorf("row %d: %w", n+1, err)
			}
		}
		s, err := NewState(dt, Meters([3]float64{vals[0], vals[1], vals[2]}, f), MetersPerSecond([3]float64{vals[3], vals[4], vals[5]}, f))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		states = append(states, s)
	}
	return states, nil
}
