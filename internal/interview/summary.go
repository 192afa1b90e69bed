package interview

// Summary is the terminal evaluation of one interview, produced by the
// external summarization call. Role-fit fields are only present when the
// session had a target role.
type Summary struct {
	Score                float64  `json:"score" bson:"score"`
	OverallFeedback      string   `json:"overall_feedback" bson:"overall_feedback"`
	TopicsCovered        []string `json:"topics_covered" bson:"topics_covered"`
	Strengths            []string `json:"strengths" bson:"strengths"`
	AreasToImprove       []string `json:"areas_to_improve" bson:"areas_to_improve"`
	RecommendedNextSteps []string `json:"recommended_next_steps" bson:"recommended_next_steps"`
	RoleFitScore         *float64 `json:"role_fit_score,omitempty" bson:"role_fit_score,omitempty"`
	RoleFitFeedback      string   `json:"role_fit_feedback,omitempty" bson:"role_fit_feedback,omitempty"`
}
