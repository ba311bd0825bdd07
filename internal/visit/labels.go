package visit

// Option pairs a stored enum value with its display label.
type Option struct {
	Value string
	Label string
}

// Symptom and form option tables. The wizard stores the Value; the summary
// step resolves it back to the Label.
var (
	InsuranceOptions = []Option{
		{Value: "none", Label: "No insurance"},
		{Value: "salamat", Label: "Salamat"},
		{Value: "tamin", Label: "Social Security"},
		{Value: "armed_forces", Label: "Armed Forces"},
		{Value: "other", Label: "Other"},
	}

	UrgencyOptions = []Option{
		{Value: "normal", Label: "Routine"},
		{Value: "urgent", Label: "Urgent"},
	}

	GeneralOptions = []Option{
		{Value: "fever", Label: "Fever and chills"},
		{Value: "fatigue", Label: "Fatigue and weakness"},
		{Value: "weight_loss", Label: "Unintended weight loss"},
		{Value: "night_sweats", Label: "Night sweats"},
		{Value: "body_pain", Label: "Generalized body pain"},
	}

	NeurologicalOptions = []Option{
		{Value: "headache", Label: "Headache"},
		{Value: "dizziness", Label: "Dizziness or vertigo"},
		{Value: "numbness", Label: "Numbness or tingling"},
		{Value: "seizure", Label: "Seizure"},
	}

	CardiovascularOptions = []Option{
		{Value: "chest_pain", Label: "Chest pain"},
		{Value: "palpitations", Label: "Palpitations"},
		{Value: "edema", Label: "Swelling of the legs"},
	}

	GastrointestinalOptions = []Option{
		{Value: "nausea", Label: "Nausea or vomiting"},
		{Value: "abdominal_pain", Label: "Abdominal pain"},
		{Value: "diarrhea", Label: "Diarrhea"},
		{Value: "constipation", Label: "Constipation"},
	}

	RespiratoryOptions = []Option{
		{Value: "cough", Label: "Cough"},
		{Value: "dyspnea", Label: "Shortness of breath"},
		{Value: "sore_throat", Label: "Sore throat"},
	}
)

// categoryTables indexes every option table by form category, used when
// resolving a stored value back to its label.
var categoryTables = map[string][]Option{
	"insurance_type":            InsuranceOptions,
	"urgency":                   UrgencyOptions,
	"general_symptoms":          GeneralOptions,
	"neurological_symptoms":     NeurologicalOptions,
	"cardiovascular_symptoms":   CardiovascularOptions,
	"gastrointestinal_symptoms": GastrointestinalOptions,
	"respiratory_symptoms":      RespiratoryOptions,
}

// Label resolves a stored enum value to its display label for the given
// category. Unknown values and "" (no selection) come back unchanged.
func Label(category, value string) string {
	for _, opt := range categoryTables[category] {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
