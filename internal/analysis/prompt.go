package analysis

import (
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/todos"
)

// brief is the per-todo projection sent to the model. Identifiers and
// descriptions are left out to keep the prompt small.
type brief struct {
	Title     string         `json:"title"`
	Priority  todos.Priority `json:"priority"`
	Completed bool           `json:"completed"`
	DueDate   *string        `json:"due_date"`
	DueTime   *string        `json:"due_time"`
	Category  []string       `json:"category"`
}

func project(list []todos.Todo) []brief {
	out := make([]brief, 0, len(list))
	for _, t := range list {
		b := brief{
			Title:     t.Title,
			Priority:  t.Priority,
			Completed: t.Completed,
			Category:  t.Category,
		}
		if t.DueDate != "" {
			b.DueDate = &t.DueDate
		}
		if t.DueTime != "" {
			b.DueTime = &t.DueTime
		}
		if b.Category == nil {
			b.Category = []string{}
		}
		out = append(out, b)
	}
	return out
}

type promptData struct {
	ai.TimeContext
	Period        Period
	Week          bool
	Stats         Stats
	TopCategories []CategoryCount
	Todos         string
	HoursLeft     int
}

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}

var promptTemplate = template.Must(template.New("analyze").Funcs(funcs).Parse(`
당신은 경험 많은 생산성 코치입니다. 사용자의 할 일 목록을 분석하여 실질적인 인사이트와 격려를 제공하세요.
간결하고 핵심적인 내용만 포함하고, 각 배열은 3-5개 항목으로 제한하세요.

## 현재 시간 정보
- 날짜: {{.Date}} ({{.Weekday}}요일)
- 시간: {{.Time}}
- 분석 기간: {{if .Week}}이번 주 (주간 패턴 분석){{else}}오늘 (당일 집중 분석){{end}}

## 통계
{{with .Stats}}
### 전체 현황
- 전체 할 일: {{.Total}}개
- 완료: {{.Completed}}개 ({{pct .CompletionRate}}%)
- 미완료: {{.Incomplete}}개

### 우선순위별 완료 패턴
- 높음(긴급): {{.PriorityAnalysis.High.Total}}개 (완료: {{.PriorityAnalysis.High.Completed}}개, {{pct .PriorityAnalysis.High.Rate}}%)
- 보통: {{.PriorityAnalysis.Medium.Total}}개 (완료: {{.PriorityAnalysis.Medium.Completed}}개, {{pct .PriorityAnalysis.Medium.Rate}}%)
- 낮음: {{.PriorityAnalysis.Low.Total}}개 (완료: {{.PriorityAnalysis.Low.Completed}}개, {{pct .PriorityAnalysis.Low.Rate}}%)

### 시간 관리
- 마감일 지난 작업(연체): {{.Overdue}}개 {{if .Overdue}}⚠️{{else}}✅{{end}}
- 3일 이내 마감: {{.Upcoming}}개
- 오늘 마감: {{.DueToday}}개
- 마감일 준수율: {{pct .OnTimeRate}}%{{if ge .OnTimeRate 80.0}} 🌟{{end}}

### 시간대별 분포
{{range .Slots}}- {{.Label}}: {{.Total}}개 (완료: {{.Completed}}개)
{{end}}- 가장 바쁜 시간대: {{.BusiestSlot.Key}} ({{.BusiestSlot.Total}}개)
{{end}}
{{- if .Week}}
### 요일별 분포 (이번 주)
{{range .Stats.Days}}- {{.Day}}요일: {{.Total}}개 (완료: {{.Completed}}개)
{{end}}- 가장 바쁜 요일: {{.Stats.BusiestDay.Day}}요일 ({{.Stats.BusiestDay.Total}}개)
{{end}}
### 카테고리별 완료 패턴
{{range .TopCategories}}- {{.Label}}: {{.Total}}개 (완료: {{.Completed}}개, {{pct .Rate}}%)
{{end}}{{with .Stats.TopCategory}}- 가장 많은 카테고리: {{.Label}} ({{.Total}}개)
{{end}}
### 생산성 패턴
- 평균 할 일 처리 기간: {{if gt .Stats.AvgLeadDays 0.0}}약 {{pct .Stats.AvgLeadDays}}일{{else}}데이터 부족{{end}}

## 할 일 목록
{{.Todos}}

## {{.Period.Label}} 분석 요구사항
{{if .Week}}
1. 주간 완료 패턴: 어떤 요일에 가장 생산적인가?
2. 시간 활용: 시간대별 생산성 패턴과 개선점
3. 우선순위 관리: 긴급 작업과 일반 작업의 균형
4. 업무 분산: 특정 날짜에 과부하가 있는가?
5. 다음 주 계획: 이번 주 패턴을 바탕으로 한 전략
{{else}}
1. 당일 우선순위: 남은 시간 동안 무엇을 먼저 해야 하는가?
2. 시간 관리: 남은 할 일의 소요 시간과 가능성
3. 긴급도 평가: 오늘 꼭 끝내야 할 작업과 미룰 수 있는 작업
4. 작업 순서: 현재 시간({{.Time}})을 고려한 최적의 순서
5. 동기부여: 이미 완료한 작업에 대한 긍정적 피드백
{{end}}
### summary
- 형식: "총 X개의 할 일 중 Y개 완료 (Z%)"
- {{if .Week}}이번 주 전반적인 진행 상황{{else}}오늘 남은 할 일 개수와 집중해야 할 포인트{{end}}를 덧붙이고, 잘하고 있는 부분을 먼저 언급

### urgentTasks (최대 5개)
- 미완료 작업 중 우선순위 높음, {{if .Week}}3일 이내 마감{{else}}오늘 마감{{end}}, 연체된 작업을 고르세요
- 마감 임박순, 그다음 우선순위순으로 정렬
- 해당 작업이 없으면 빈 배열 []

### insights (3~5개)
- 완료율({{pct .Stats.CompletionRate}}%)과 우선순위별 완료 패턴을 비교
- 마감일 준수율({{pct .Stats.OnTimeRate}}%)과 연체 작업을 구체적으로 언급
- 가장 바쁜 시간대({{.Stats.BusiestSlot.Key}}){{if .Week}}와 요일({{.Stats.BusiestDay.Day}}요일){{end}}의 업무 집중도
- 카테고리 편중 여부 (가장 많은 카테고리: {{with .Stats.TopCategory}}{{.Label}}{{else}}없음{{end}})
- 구체적인 숫자를 쓰고, 긍정적인 점을 먼저 말한 뒤 개선점을 말하세요

### recommendations (3~5개)
{{- with .Stats}}{{if .Overdue}}
- 연체된 {{.Overdue}}개 작업을 우선 처리하도록 제안{{end}}{{if .Upcoming}}
- 3일 이내 마감인 {{.Upcoming}}개 작업에 집중하도록 제안{{end}}{{end}}
- {{if .Week}}주간 일정 재조정{{else}}오늘 남은 시간({{.HoursLeft}}시간)을 고려한 작업 순서{{end}}
{{- if gt (index .Stats.Slots 1).Incomplete (index .Stats.Slots 0).Incomplete}}
- 오후에 작업이 몰려 있으니 오전에 일부를 처리하도록 제안{{end}}
{{- if and .Week (gt .Stats.BusiestDay.Total 5)}}
- {{.Stats.BusiestDay.Day}}요일 업무 과부하를 다른 날로 분산하도록 제안{{end}}
{{- if gt .Stats.AvgLeadDays 5.0}}
- 할 일을 더 작은 단위로 쪼개도록 제안{{end}}
{{- if ge .Stats.CompletionRate 80.0}}
- 완료율이 매우 높으니 계속 유지하도록 격려{{end}}
- 구체적이고 실천 가능한 행동을 친근한 제안 어투("~하세요", "~해보세요")로 작성
- 마지막은 {{if .Week}}"이번 주 목표 달성까지 조금만 더 힘내세요!"{{else}}"오늘 하루도 화이팅!"{{end}} 같은 격려로 마무리

## 작성 가이드
- 통계 수치를 최대한 활용하고 "많다" 대신 "5개"처럼 숫자를 쓰세요
- 비판적이거나 명령조인 표현은 피하세요
- 이모지는 적당히만 사용하세요
`))

// BuildPrompt renders the analysis prompt for a period's todos and their
// statistics.
func BuildPrompt(now time.Time, period Period, list []todos.Todo, stats Stats) (string, error) {
	payload, err := json.MarshalIndent(project(list), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode todo projection: %w", err)
	}
	tc := ai.NewTimeContext(now)
	return ai.Render(promptTemplate, promptData{
		TimeContext:   tc,
		Period:        period,
		Week:          period == PeriodWeek,
		Stats:         stats,
		TopCategories: stats.TopCategories(5),
		Todos:         string(payload),
		HoursLeft:     tc.HoursLeftToday(),
	})
}
