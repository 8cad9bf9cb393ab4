// Package advice holds the closed disease label set and the per-label
// care recommendations served alongside predictions.
package advice

// Labels is the ordered label set the classifier was trained against.
// Index i of the model output corresponds to Labels[i]; the order must
// not change without retraining the model.
var Labels = []string{
	"Healthy",
	"Bacterial Spot",
	"Early Blight",
	"Late Blight",
	"Leaf Mold",
	"Septoria Leaf Spot",
	"Spider Mites",
	"Target Spot",
	"Yellow Leaf Curl Virus",
	"Mosaic Virus",
}

// Table maps a disease label to an ordered list of care recommendations.
type Table map[string][]string

// defaultAdvice is returned for labels missing from the table. The label
// set is closed, so this should never be hit in practice, but lookup must
// never fail.
var defaultAdvice = []string{
	"Consult with a plant pathologist for specific treatment advice.",
	"Monitor the plant closely for changes.",
	"Consider isolating the plant if symptoms worsen.",
}

// For returns the recommendations for label, or the default entry when the
// label is not present.
func (t Table) For(label string) []string {
	if recs, ok := t[label]; ok {
		return recs
	}
	return defaultAdvice
}

// DefaultTable returns the built-in recommendation table covering every
// entry in Labels.
func DefaultTable() Table {
	return Table{
		"Healthy": {
			"Your plant appears healthy! Continue current care practices.",
			"Maintain proper watering and ensure good air circulation.",
			"Monitor regularly for any changes.",
		},
		"Bacterial Spot": {
			"Remove affected leaves and dispose of them properly.",
			"Apply copper-based fungicide spray.",
			"Improve air circulation around plants.",
			"Water at soil level to avoid wetting leaves.",
			"Consider using drip irrigation.",
		},
		"Early Blight": {
			"Remove and destroy infected plant debris.",
			"Apply fungicide containing chlorothalonil or copper.",
			"Ensure proper plant spacing for air circulation.",
			"Water early in the day so leaves dry quickly.",
			"Consider crop rotation next season.",
		},
		"Late Blight": {
			"Remove affected plants immediately to prevent spread.",
			"Apply preventive fungicide spray (copper or mancozeb).",
			"Ensure good drainage and avoid overhead watering.",
			"Increase air circulation between plants.",
			"Monitor weather conditions - disease spreads in cool, wet weather.",
		},
		"Leaf Mold": {
			"Improve greenhouse ventilation if growing indoors.",
			"Reduce humidity around plants.",
			"Remove infected leaves immediately.",
			"Apply fungicide spray in the evening.",
			"Consider resistant varieties for future planting.",
		},
		"Septoria Leaf Spot": {
			"Remove infected leaves from bottom of plant first.",
			"Apply organic fungicide or neem oil spray.",
			"Mulch around plants to prevent soil splash.",
			"Water at ground level only.",
			"Stake plants to improve air circulation.",
		},
		"Spider Mites": {
			"Spray plants with water to dislodge mites.",
			"Apply insecticidal soap or neem oil.",
			"Increase humidity around plants.",
			"Introduce beneficial insects like ladybugs.",
			"Remove heavily infested leaves.",
		},
		"Target Spot": {
			"Remove infected plant debris immediately.",
			"Apply preventive fungicide treatment.",
			"Improve air circulation and reduce humidity.",
			"Avoid overhead watering.",
			"Consider soil sterilization for severe cases.",
		},
		"Yellow Leaf Curl Virus": {
			"Remove infected plants to prevent spread.",
			"Control whitefly populations (vector of virus).",
			"Use reflective mulch to deter insects.",
			"Plant virus-resistant varieties.",
			"Monitor and remove weeds that may harbor the virus.",
		},
		"Mosaic Virus": {
			"Remove and destroy infected plants immediately.",
			"Disinfect tools between plants.",
			"Control aphid populations (virus vector).",
			"Wash hands thoroughly when handling plants.",
			"Plant virus-resistant cultivars in future.",
		},
	}
}
