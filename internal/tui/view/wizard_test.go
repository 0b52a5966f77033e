package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/kartel/whygo/internal/testutil"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

func onboardingContext() *whygo.OnboardingContext {
	mgr := testutil.Manager()
	company := testutil.CompanyGoals()
	company[0].Outcomes = []whygo.Outcome{
		{ID: "o_1", Description: "ARR", MetricType: whygo.MetricCurrency, TargetQ1: whygo.Num(1250)},
	}
	return &whygo.OnboardingContext{
		Person:          testutil.Report(),
		Department:      whygo.Department{ID: "d_1", Name: "Engineering"},
		Manager:         &mgr,
		CompanyGoals:    company,
		DepartmentGoals: testutil.DepartmentGoals(),
	}
}

func TestStepIndicator(t *testing.T) {
	got := ansi.Strip(StepIndicator(styles.Default(), wizard.StepCompany))
	for _, want := range []string{"✓ Your Profile", "2 Company Goals", "3 Department Goals", "5 All Set"} {
		if !strings.Contains(got, want) {
			t.Errorf("indicator missing %q: %s", want, got)
		}
	}
	if strings.Contains(got, "✓ Company Goals") {
		t.Errorf("current step rendered as done: %s", got)
	}
}

func TestRenderProfile(t *testing.T) {
	s := styles.Default()
	tests := []struct {
		name    string
		oc      func() *whygo.OnboardingContext
		want    []string
		notWant []string
	}{
		{
			name: "full profile",
			oc:   onboardingContext,
			want: []string{"Welcome!", "Your Profile", "Grace Hopper", "Engineer", "Engineering", "ic", "Reports to", "Ada Lovelace"},
		},
		{
			name: "no manager",
			oc: func() *whygo.OnboardingContext {
				oc := onboardingContext()
				oc.Manager = nil
				return oc
			},
			want:    []string{"Grace Hopper"},
			notWant: []string{"Reports to"},
		},
		{
			name:    "context not loaded",
			oc:      func() *whygo.OnboardingContext { return nil },
			want:    []string{ProfileLoadFailed},
			notWant: []string{"Your Profile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderProfile(s, tt.oc()))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("unexpected %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderCompanyGoals(t *testing.T) {
	got := ansi.Strip(RenderCompanyGoals(styles.Default(), onboardingContext(), 100))
	for _, want := range []string{
		"Company Goals for 2026",
		"Kartel's 2 strategic priorities",
		"Company Goal #1",
		"Grow revenue 40%",
		"1 Outcome",
		"Q1: 1,250",
		"Q2: TBD",
		"Company Goal #2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRenderDepartmentGoals(t *testing.T) {
	s := styles.Default()

	got := ansi.Strip(RenderDepartmentGoals(s, onboardingContext(), 100))
	for _, want := range []string{"Engineering Department Goals", "Department Goal #2", "Ladders to Company Goal #2", "Halve customer-facing incidents"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	oc := onboardingContext()
	oc.DepartmentGoals = nil
	got = ansi.Strip(RenderDepartmentGoals(s, oc, 100))
	if !strings.Contains(got, "Your department hasn't set goals yet") {
		t.Errorf("empty department not explained:\n%s", got)
	}
}

func TestRenderComplete(t *testing.T) {
	s := styles.Default()

	got := ansi.Strip(RenderComplete(s, onboardingContext()))
	for _, want := range []string{"You're All Set!", "Ada Lovelace will review your goal", "Once approved, your goal becomes active", "Go to Dashboard"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	got = ansi.Strip(RenderComplete(s, nil))
	if !strings.Contains(got, "Your manager will review your goal") {
		t.Errorf("fallback reviewer missing:\n%s", got)
	}
}
