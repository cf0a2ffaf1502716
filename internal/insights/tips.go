package insights

import "regexp"

const (
	TipFormatting = "Improve your resume's formatting for better readability"
	TipMetrics    = "Add more quantifiable achievements with specific metrics"
	TipKeywords   = "Include more job-specific keywords to pass ATS screening"
	TipVerbs      = "Use strong action verbs to describe your accomplishments"
	TipSkills     = "Highlight your technical skills more prominently"
	TipExperience = "Focus on relevant experience that matches the job requirements"
	TipEducation  = "Ensure your education and certifications are clearly presented"
	TipConcise    = "Keep your resume concise and focused on relevant information"
)

type tipRule struct {
	pattern *regexp.Regexp
	tip     string
}

// Checked in order; the order is visible in the output.
var tipRules = []tipRule{
	{regexp.MustCompile(`(?i)format|formatting|layout|design`), TipFormatting},
	{regexp.MustCompile(`(?i)quantif|measur|number|metric|statistic`), TipMetrics},
	{regexp.MustCompile(`(?i)keyword|ats|applicant tracking|match`), TipKeywords},
	{regexp.MustCompile(`(?i)action verb|passive|active voice`), TipVerbs},
	{regexp.MustCompile(`(?i)skill|technical|technology|proficiency`), TipSkills},
	{regexp.MustCompile(`(?i)experience|work history|job`), TipExperience},
	{regexp.MustCompile(`(?i)education|degree|certification|qualification`), TipEducation},
	{regexp.MustCompile(`(?i)concise|brief|length|too long|verbose`), TipConcise},
}

var defaultTips = []string{
	"Use action verbs to describe achievements",
	"Customize for each job application",
	"Keep design clean and professional",
	"Proofread for errors",
	"Include relevant keywords",
	"Quantify achievements with numbers",
}

// DefaultTips returns the generic tips shown when the analysis mentions no known topic.
func DefaultTips() []string {
	return append([]string(nil), defaultTips...)
}

// ExtractTips returns one tip per resume topic mentioned in the analysis.
// It returns an empty, non-nil slice when no topic matched.
func ExtractTips(fullText string) []string {
	tips := make([]string, 0, len(tipRules))
	for _, rule := range tipRules {
		if rule.pattern.MatchString(fullText) {
			tips = append(tips, rule.tip)
		}
	}
	return tips
}

// TipsOrDefault is ExtractTips with DefaultTips substituted for an empty result.
func TipsOrDefault(fullText string) (tips []string, personalized bool) {
	tips = ExtractTips(fullText)
	if len(tips) == 0 {
		return DefaultTips(), false
	}
	return tips, true
}
