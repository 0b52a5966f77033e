package whygo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{`12.5`, Num(12.5)},
		{`0`, Num(0)},
		{`null`, Number{}},
		{`"1,250"`, Num(1250)},
		{`"$300"`, Num(300)},
		{`"45%"`, Num(45)},
		{`""`, Number{}},
		{`"TBD"`, Number{}},
		{`"done"`, Num(1)},
		{`true`, Num(1)},
		{`false`, Num(0)},
		{`"NaN"`, Number{}},
		{`"Inf"`, Number{}},
		{`"+Infinity"`, Number{}},
		{`"-inf"`, Number{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if n != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, n, tt.want)
			}
		})
	}
}

func TestNumber_MarshalJSON(t *testing.T) {
	type wrapper struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}
	data, err := json.Marshal(wrapper{A: Num(3), B: Number{}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":3,"b":null}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestParseParentRef(t *testing.T) {
	tests := []struct {
		id        string
		wantKind  RefKind
		wantNum   string
		wantLabel string
	}{
		{"cg_3", RefCompany, "3", "Company Goal #3"},
		{"dg_2_sales", RefDepartment, "2", "Dept Goal #2"},
		{"dg_7", RefDepartment, "7", "Dept Goal #7"},
		{"legacy-42", RefUnknown, "legacy-42", "legacy-42"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := ParseParentRef(tt.id)
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.wantKind)
			}
			if r.Number() != tt.wantNum {
				t.Errorf("Number() = %q, want %q", r.Number(), tt.wantNum)
			}
			if r.Label() != tt.wantLabel {
				t.Errorf("Label() = %q, want %q", r.Label(), tt.wantLabel)
			}
		})
	}
}

func TestIndividualGoal_DecodesParentsOnce(t *testing.T) {
	raw := `{
		"id": "ig_1", "why": "w", "goal": "g", "status": "approved", "fiscal_year": 2026,
		"person_id": "p_1", "parent_goal_ids": ["dg_4_eng", "cg_1", "x"],
		"approved_by": "p_9",
		"outcomes": [{"id": "o1", "metric_type": "percentage", "target_q1": 10, "actual_q1": null}]
	}`
	var g IndividualGoal
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}

	want := ParentRefs{DepartmentRef("dg_4_eng"), CompanyRef("cg_1"), {Kind: RefUnknown, ID: "x"}}
	if diff := cmp.Diff(want, g.Parents); diff != "" {
		t.Errorf("Parents mismatch (-want +got):\n%s", diff)
	}
	if !g.IsApproved() {
		t.Error("IsApproved() = false")
	}
	if g.Goal.Goal != "g" || g.FiscalYear != 2026 {
		t.Errorf("embedded fields not decoded: %+v", g.Goal)
	}
	if got := g.Parents.OfKind(RefDepartment).IDs(); len(got) != 1 || got[0] != "dg_4_eng" {
		t.Errorf("OfKind(RefDepartment) = %v", got)
	}
	o := g.Outcomes[0]
	if !o.Target(Q1).Valid || o.Actual(Q1).Valid {
		t.Errorf("outcome quarter values = %+v / %+v", o.Target(Q1), o.Actual(Q1))
	}

	out, err := json.Marshal(g.Parents)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `["dg_4_eng","cg_1","x"]` {
		t.Errorf("Marshal(Parents) = %s", out)
	}
}

func TestQuarter(t *testing.T) {
	for _, s := range []string{"q1", "Q2", " q3 ", "q4"} {
		if _, err := ParseQuarter(s); err != nil {
			t.Errorf("ParseQuarter(%q) error = %v", s, err)
		}
	}
	if _, err := ParseQuarter("q5"); err == nil {
		t.Error("ParseQuarter(q5) should fail")
	}
	if Q3.Label() != "Q3" || Q3.String() != "q3" {
		t.Errorf("Q3 = %q / %q", Q3.Label(), Q3.String())
	}
	if got := QuarterOf(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)); got != Q4 {
		t.Errorf("QuarterOf(November) = %v", got)
	}

	data, err := json.Marshal(map[string]Quarter{"q": Q2})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"q":"q2"}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		level Level
		want  Capabilities
	}{
		{LevelExecutive, Capabilities{CanViewTeam: true, CanApproveGoals: true}},
		{LevelDepartmentHead, Capabilities{CanViewTeam: true, CanApproveGoals: true}},
		{LevelManager, Capabilities{CanViewTeam: true, CanApproveGoals: true}},
		{LevelIC, Capabilities{}},
		{Level("intern"), Capabilities{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := CapabilitiesFor(tt.level)
			if got != tt.want {
				t.Errorf("CapabilitiesFor(%q) = %+v, want %+v", tt.level, got, tt.want)
			}
			if got.Leadership() != tt.want.CanViewTeam {
				t.Errorf("Leadership() = %v", got.Leadership())
			}
		})
	}
}

func TestPerson_Initials(t *testing.T) {
	if got := (Person{Name: "ada  lovelace"}).Initials(); got != "AL" {
		t.Errorf("Initials() = %q", got)
	}
	if got := (Person{}).Initials(); got != "" {
		t.Errorf("Initials() of empty name = %q", got)
	}
}

func TestMetricType(t *testing.T) {
	for _, m := range MetricTypes() {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if MetricType("score").Valid() {
		t.Error("unknown metric type reported valid")
	}
	if MetricBoolean.Label() != "Yes/No" {
		t.Errorf("Label() = %q", MetricBoolean.Label())
	}
}

func TestOnboardingContext_Complete(t *testing.T) {
	var nilCtx *OnboardingContext
	if nilCtx.Complete() {
		t.Error("nil context reported complete")
	}
	ctx := &OnboardingContext{Person: Person{ID: "p_1"}}
	if ctx.Complete() {
		t.Error("context without department reported complete")
	}
	ctx.Department.ID = "d_1"
	if !ctx.Complete() {
		t.Error("context with person and department should be complete")
	}
}
