package analysis

import "todo-ai-backend/internal/ai"

const (
	maxUrgent = 5
	maxItems  = 5
)

type Result struct {
	Summary         string   `json:"summary"`
	UrgentTasks     []string `json:"urgentTasks"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// normalize caps list lengths and replaces nil lists with empty ones so the
// wire shape is always the same. Entries are otherwise passed through as the
// model wrote them.
func (r Result) normalize() Result {
	r.UrgentTasks = capList(r.UrgentTasks, maxUrgent)
	r.Insights = capList(r.Insights, maxItems)
	r.Recommendations = capList(r.Recommendations, maxItems)
	return r
}

func capList(in []string, n int) []string {
	if len(in) > n {
		in = in[:n]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// EmptyResult is the encouraging answer for a period with nothing in it.
func EmptyResult(p Period) Result {
	summary := "오늘 등록된 할 일이 없습니다."
	if p == PeriodWeek {
		summary = "이번 주 등록된 할 일이 없습니다."
	}
	return Result{
		Summary:     summary,
		UrgentTasks: []string{},
		Insights: []string{
			"새로운 할 일을 추가해보세요! 🎯",
			"AI 생성 기능을 활용하면 더 빠르게 할 일을 등록할 수 있습니다.",
		},
		Recommendations: []string{
			"오늘 해야 할 일을 계획해보세요.",
			"우선순위를 정하고 하나씩 실행해보세요.",
		},
	}
}

// Schema is the strict response format for an analysis.
var Schema = ai.Schema{
	Name:        "todo_analysis",
	Description: "할 일 목록 분석 결과",
	Definition: ai.Object(map[string]any{
		"summary":         ai.String("전체 할 일 요약 (완료율 포함)"),
		"urgentTasks":     ai.StringArray("긴급하게 처리해야 할 작업 목록 (최대 5개)"),
		"insights":        ai.StringArray("데이터 기반 인사이트 (3-5개)"),
		"recommendations": ai.StringArray("실행 가능한 추천 사항 (3-5개)"),
	}),
}
