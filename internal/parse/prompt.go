package parse

import (
	"text/template"
	"time"

	"todo-ai-backend/internal/ai"
)

type keywordRule struct {
	Keywords string
	Value    string
}

type promptData struct {
	ai.TimeContext
	Dates      []keywordRule
	Times      []keywordRule
	Hours      []keywordRule
	Priorities []keywordRule
	Categories []keywordRule
	Input      string
}

var timeOfDay = []keywordRule{
	{`"아침", "오전"`, "09:00"},
	{`"점심"`, "12:00"},
	{`"오후"`, "14:00"},
	{`"저녁"`, "18:00"},
	{`"밤"`, "21:00"},
}

var explicitHours = []keywordRule{
	{`"3시", "오전 3시"`, "03:00"},
	{`"오후 3시", "15시"`, "15:00"},
	{`"정오"`, "12:00"},
	{`"자정"`, "00:00"},
}

var priorityKeywords = []keywordRule{
	{`"급하게", "중요한", "빨리", "꼭", "반드시", "긴급", "ASAP"`, "high"},
	{`특별한 표현 없음, "보통", "적당히"`, "medium"},
	{`"여유롭게", "천천히", "언젠가", "시간 날 때"`, "low"},
}

var categoryKeywords = []keywordRule{
	{`"회의", "보고서", "프로젝트", "업무", "미팅", "발표", "제안서", "계약"`, "업무"},
	{`"쇼핑", "친구", "가족", "약속", "집안일", "청소", "빨래"`, "개인"},
	{`"운동", "병원", "요가", "헬스", "러닝", "산책", "검진"`, "건강"},
	{`"공부", "책", "강의", "수업", "스터디", "자격증", "시험", "독서"`, "학습"},
}

var promptTemplate = template.Must(template.New("parse").Parse(`
사용자가 자연어로 적은 할 일을 구조화된 할 일 데이터로 바꾸세요.
응답은 스키마에 맞는 최소한의 정보만 담고, 설명 문장은 덧붙이지 마세요.

## 현재 시각
- 날짜/시간: {{.Date}} {{.Time}} ({{.Weekday}}요일)
- 연도: {{.Year}}년, 월: {{.Month}}월, 일: {{.Day}}일

## 규칙

### title
- 핵심 행동만 짧게 (20자 안팎)
- 불필요한 조사는 빼기. 예: "보고서를 작성하기" → "보고서 작성"

### due_date (YYYY-MM-DD)
{{range .Dates}}- {{.Keywords}} → {{.Value}}
{{end}}- 날짜 언급이 전혀 없으면 ""

### due_time (HH:MM, 24시간제)
시간대 표현:
{{range .Times}}- {{.Keywords}} → {{.Value}}
{{end}}명시된 시각:
{{range .Hours}}- {{.Keywords}} → {{.Value}}
{{end}}- 날짜는 있지만 시각이 없으면 업무는 09:00, 개인 일정은 18:00
- 날짜와 시각이 모두 없으면 ""

### priority
{{range .Priorities}}- {{.Value}}: {{.Keywords}}
{{end}}
### category (최대 2개, 판단할 수 없으면 [])
{{range .Categories}}- "{{.Value}}": {{.Keywords}}
{{end}}
### description
- 입력에 제목 외의 구체적인 정보가 있을 때만 담고, 없으면 ""

## 예시
입력: "내일 오후 3시까지 중요한 프로젝트 보고서 작성"
출력: {"title":"프로젝트 보고서 작성","description":"","due_date":"{{.Shift 1}}","due_time":"15:00","priority":"high","category":["업무"]}

입력: "언젠가 책 읽기"
출력: {"title":"책 읽기","description":"","due_date":"","due_time":"","priority":"low","category":["학습"]}

## 사용자 입력
"{{.Input}}"

모든 필드를 반드시 포함하고, 값이 없으면 "" 또는 []을 사용하세요.
`))

// BuildPrompt renders the parse prompt for a cleaned input at now.
func BuildPrompt(now time.Time, cleaned string) (string, error) {
	tc := ai.NewTimeContext(now)
	data := promptData{
		TimeContext: tc,
		Dates: []keywordRule{
			{`"오늘"`, tc.Date},
			{`"내일"`, tc.Shift(1)},
			{`"모레"`, tc.Shift(2)},
			{`"이번 주 금요일"`, tc.NextWeekday(time.Friday, false)},
			{`"주말", "이번 주 끝"`, tc.NextWeekday(time.Saturday, false)},
			{`"다음 주 월요일", "다음 주"`, tc.NextWeekday(time.Monday, true)},
			{`"다음 주 금요일"`, tc.NextWeekday(time.Friday, true)},
		},
		Times:      timeOfDay,
		Hours:      explicitHours,
		Priorities: priorityKeywords,
		Categories: categoryKeywords,
		Input:      cleaned,
	}
	return ai.Render(promptTemplate, data)
}

// Schema is the strict response format for a parsed todo.
var Schema = ai.Schema{
	Name:        "parsed_todo",
	Description: "자연어 입력에서 추출한 할 일",
	Definition: ai.Object(map[string]any{
		"title":       ai.String("할 일의 제목 (간결하고 명확하게)"),
		"description": ai.String(`상세 설명, 없으면 ""`),
		"due_date":    ai.String(`마감일 YYYY-MM-DD, 없으면 ""`),
		"due_time":    ai.String(`마감 시간 HH:MM (24시간제), 없으면 ""`),
		"priority":    ai.Enum("우선순위: high(긴급/중요), medium(보통), low(낮음)", "high", "medium", "low"),
		"category":    ai.StringArray(`카테고리 최대 2개 (예: "업무", "개인", "건강", "학습"), 없으면 []`),
	}),
}
