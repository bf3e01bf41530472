package report

// Report is the career analysis returned by the analysis service.
// It is treated as immutable once received.
type Report struct {
	Archetype            string              `json:"archetype" yaml:"archetype"`
	ArchetypeDescription string              `json:"archetypeDescription" yaml:"archetypeDescription"`
	PersonalitySummary   string              `json:"personalitySummary" yaml:"personalitySummary"`
	Strengths            []string            `json:"strengths" yaml:"strengths"`
	Weaknesses           []string            `json:"weaknesses" yaml:"weaknesses"`
	RecommendedJobs      []JobRecommendation `json:"recommendedJobs" yaml:"recommendedJobs"`
	LearningPath         []string            `json:"learningPath" yaml:"learningPath"`
	LongTermOutlook      string              `json:"longTermOutlook" yaml:"longTermOutlook"`
	RadarChartData       []RadarPoint        `json:"radarChartData" yaml:"radarChartData"`
}

type JobRecommendation struct {
	Title string `json:"title" yaml:"title"`
	// MatchScore is a percentage in [0, 100].
	MatchScore     int      `json:"matchScore" yaml:"matchScore"`
	Reason         string   `json:"reason" yaml:"reason"`
	RequiredSkills []string `json:"requiredSkills" yaml:"requiredSkills"`
}

// RadarPoint is one axis of the capability radar chart.
type RadarPoint struct {
	Subject  string `json:"subject" yaml:"subject"`
	A        int    `json:"A" yaml:"A"`
	FullMark int    `json:"fullMark" yaml:"fullMark"`
}

// JobTitles returns the recommended job titles in report order.
func (r *Report) JobTitles() []string {
	titles := make([]string, 0, len(r.RecommendedJobs))
	for _, job := range r.RecommendedJobs {
		titles = append(titles, job.Title)
	}
	return titles
}
