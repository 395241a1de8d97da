package dto

type ExtractSkillsRequest struct {
	Text string `json:"text" validate:"required"`
}

type AnalyzeRequest struct {
	ResumeText       string   `json:"resume_text" validate:"required"`
	JDText           string   `json:"jd_text" validate:"required_without=JDURL"`
	JDURL            string   `json:"jd_url" validate:"omitempty,url"`
	MatchThreshold   *float64 `json:"match_threshold" validate:"omitempty,gt=0,lte=1"`
	PartialThreshold *float64 `json:"partial_threshold" validate:"omitempty,gt=0,lte=1"`
}

type BatchAnalyzeRequest struct {
	ResumeText       string   `json:"resume_text" validate:"required"`
	JDTexts          []string `json:"jd_texts" validate:"required,min=1,dive,required"`
	MatchThreshold   *float64 `json:"match_threshold" validate:"omitempty,gt=0,lte=1"`
	PartialThreshold *float64 `json:"partial_threshold" validate:"omitempty,gt=0,lte=1"`
}
