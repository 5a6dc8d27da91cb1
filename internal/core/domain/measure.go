package domain

import "strconv"

// MeasureType identifies a Withings measurement kind. The numeric values
// match the meastype codes in the Withings API reference.
type MeasureType int

// Measurement kinds supported by the measure-getmeas operation.
const (
	MeasureWeight                 MeasureType = 1   // Weight (kg)
	MeasureHeight                 MeasureType = 4   // Height (meter)
	MeasureFatFreeMass            MeasureType = 5   // Fat Free Mass (kg)
	MeasureFatRatio               MeasureType = 6   // Fat Ratio (%)
	MeasureFatMassWeight          MeasureType = 8   // Fat Mass Weight (kg)
	MeasureDiastolicBloodPressure MeasureType = 9   // Diastolic Blood Pressure (mmHg)
	MeasureSystolicBloodPressure  MeasureType = 10  // Systolic Blood Pressure (mmHg)
	MeasureHeartPulse             MeasureType = 11  // Heart Pulse (bpm)
	MeasureTemperature            MeasureType = 12  // Temperature (C)
	MeasureSpO2                   MeasureType = 54  // SpO2 (%)
	MeasureBodyTemperature        MeasureType = 71  // Body Temperature (C)
	MeasureSkinTemperature        MeasureType = 73  // Skin Temperature (C)
	MeasureMuscleMass             MeasureType = 76  // Muscle Mass (kg)
	MeasureHydration              MeasureType = 77  // Hydration (%)
	MeasureBoneMass               MeasureType = 88  // Bone Mass (kg)
	MeasurePulseWaveVelocity      MeasureType = 91  // Pulse Wave Velocity (m/s)
	MeasureVO2Max                 MeasureType = 123 // VO2 max (mL/min/kg)
	MeasureAtrialFibrillation     MeasureType = 130 // Atrial Fibrillation (0 or 1)
	MeasureQRS                    MeasureType = 135 // QRS Duration (ms)
	MeasureVascularAge            MeasureType = 155 // Vascular Age (years)
	MeasureExtracellularWater     MeasureType = 168 // Extracellular Water (kg)
	MeasureIntracellularWater     MeasureType = 169 // Intracellular Water (kg)
	MeasureVisceralFatMass        MeasureType = 170 // Visceral Fat Mass (kg)
	MeasureFatMass                MeasureType = 174 // Fat Mass (kg)
	MeasureMuscleMassSegments     MeasureType = 175 // Muscle Mass segments (kg)
)

// String returns the numeric code as the API expects it in query parameters.
func (t MeasureType) String() string {
	return strconv.Itoa(int(t))
}

// measureTypeNames maps CLI-friendly names to measurement kinds.
var measureTypeNames = map[string]MeasureType{
	"weight":        MeasureWeight,
	"height":        MeasureHeight,
	"fat-free-mass": MeasureFatFreeMass,
	"fat-ratio":     MeasureFatRatio,
	"fat-mass":      MeasureFatMassWeight,
	"diastolic":     MeasureDiastolicBloodPressure,
	"systolic":      MeasureSystolicBloodPressure,
	"heart-pulse":   MeasureHeartPulse,
	"temperature":   MeasureTemperature,
	"spo2":          MeasureSpO2,
	"muscle-mass":   MeasureMuscleMass,
	"hydration":     MeasureHydration,
	"bone-mass":     MeasureBoneMass,
	"vo2max":        MeasureVO2Max,
	"skin-temp":     MeasureSkinTemperature,
	"body-temp":     MeasureBodyTemperature,
}

// ParseMeasureType resolves a CLI-friendly name (e.g. "weight") or a raw
// numeric code to a MeasureType.
func ParseMeasureType(s string) (MeasureType, bool) {
	if t, ok := measureTypeNames[s]; ok {
		return t, true
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return MeasureType(n), true
	}
	return 0, false
}

// CategoryType distinguishes real measurements from user objectives.
type CategoryType int

// Category codes from the Withings API reference.
const (
	CategoryMeasures   CategoryType = 1
	CategoryObjectives CategoryType = 2
)

// String returns the numeric code as the API expects it in query parameters.
func (c CategoryType) String() string {
	return strconv.Itoa(int(c))
}

// MeasureQuery holds the parameters for a measure-getmeas call.
// Optional fields are zero-valued when unset and omitted from the request.
type MeasureQuery struct {
	Type     MeasureType
	Category CategoryType
	// Start and End bound the measurement window (unix timestamps).
	Start string
	End   string
	// Offset continues a paginated listing.
	Offset string
	// LastUpdate requests only measurements modified since this timestamp.
	LastUpdate string
}

// MeasureResponse is the typed measure-getmeas response.
type MeasureResponse struct {
	Status int         `json:"status"`
	Body   MeasureBody `json:"body"`
}

// MeasureBody is the payload of a measure-getmeas response.
type MeasureBody struct {
	UpdateTime int64          `json:"updatetime"`
	Timezone   string         `json:"timezone"`
	More       int            `json:"more,omitempty"`
	Offset     int            `json:"offset,omitempty"`
	Groups     []MeasureGroup `json:"measuregrps"`
}

// MeasureGroup is one device reading containing one or more measures.
type MeasureGroup struct {
	GroupID  int64     `json:"grpid"`
	Attrib   int       `json:"attrib"`
	Date     int64     `json:"date"`
	Created  int64     `json:"created"`
	Modified int64     `json:"modified"`
	Category int       `json:"category"`
	DeviceID string    `json:"deviceid"`
	Measures []Measure `json:"measures"`
}

// Measure is a single measured value. The real value is
// Value * 10^Unit (Unit is a negative power-of-ten exponent).
type Measure struct {
	Value int64 `json:"value"`
	Type  int   `json:"type"`
	Unit  int   `json:"unit"`
}

// Float returns the measure as a floating point value in its natural unit.
func (m Measure) Float() float64 {
	v := float64(m.Value)
	for i := 0; i < -m.Unit; i++ {
		v /= 10
	}
	for i := 0; i < m.Unit; i++ {
		v *= 10
	}
	return v
}
