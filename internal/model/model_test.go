package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"schedtex/internal/model"
)

func stage(label string, times ...string) model.Stage {
	st := model.Stage{Label: label}
	for _, tm := range times {
		st.Events = append(st.Events, model.Event{Time: tm, Label: label + " " + tm})
	}
	return st
}

func TestRemoveStageDropsDayWithOnlyMatchingStages(t *testing.T) {
	s := model.Schedule{Days: []model.Day{
		{Label: "Thu", Stages: []model.Stage{stage("Newforces Stage", "18:00 - 19:00")}},
		{Label: "Fri", Stages: []model.Stage{
			stage("Main Stage", "20:00 - 21:00"),
			stage("Newforces Stage", "20:00 - 21:00"),
			stage("Tent", "22:00 - 23:00"),
		}},
		{Label: "Sat", Stages: []model.Stage{stage("Main Stage", "14:00 - 15:00")}},
	}}

	s.RemoveStage("Newforces Stage")

	want := model.Schedule{Days: []model.Day{
		{Label: "Fri", Stages: []model.Stage{
			stage("Main Stage", "20:00 - 21:00"),
			stage("Tent", "22:00 - 23:00"),
		}},
		{Label: "Sat", Stages: []model.Stage{stage("Main Stage", "14:00 - 15:00")}},
	}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("RemoveStage mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveStageIsIdempotent(t *testing.T) {
	s := model.Schedule{Days: []model.Day{
		{Stages: []model.Stage{stage("A", "10:00 - 11:00"), stage("B", "11:00 - 12:00")}},
		{Stages: []model.Stage{stage("B", "12:00 - 13:00")}},
	}}

	s.RemoveStage("B")
	once := s.Clone()
	s.RemoveStage("B")

	if diff := cmp.Diff(once, s); diff != "" {
		t.Fatalf("second RemoveStage changed schedule (-once +twice):\n%s", diff)
	}
	if len(s.Days) != 1 || len(s.Days[0].Stages) != 1 || s.Days[0].Stages[0].Label != "A" {
		t.Fatalf("unexpected result: %+v", s)
	}
}

func TestWithoutStageLeavesOriginalUntouched(t *testing.T) {
	orig := model.Schedule{Days: []model.Day{
		{Stages: []model.Stage{stage("Newforces Stage", "10:00 - 11:00")}},
		{Stages: []model.Stage{stage("Main", "10:00 - 11:00"), stage("Newforces Stage", "12:00 - 13:00")}},
	}}
	before := orig.Clone()

	filtered := orig.WithoutStage("Newforces Stage")

	if diff := cmp.Diff(before, orig); diff != "" {
		t.Fatalf("original mutated (-before +after):\n%s", diff)
	}
	if len(filtered.Days) != 1 || len(filtered.Days[0].Stages) != 1 {
		t.Fatalf("unexpected filtered schedule: %+v", filtered)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := model.Schedule{Days: []model.Day{{Stages: []model.Stage{stage("Main", "10:00 - 11:00")}}}}
	cp := orig.Clone()
	cp.Days[0].Stages[0].Events[0].Label = "changed"
	cp.Days[0].Stages[0].Label = "changed"

	if orig.Days[0].Stages[0].Events[0].Label == "changed" || orig.Days[0].Stages[0].Label == "changed" {
		t.Fatal("clone shares memory with original")
	}
}

func TestEventCount(t *testing.T) {
	days := []model.Day{
		{Stages: []model.Stage{stage("A", "10:00 - 11:00", "11:00 - 12:00"), stage("B", "-")}},
		{Stages: []model.Stage{stage("C", "12:00 - 13:00")}},
	}
	if got := model.EventCount(days); got != 4 {
		t.Fatalf("EventCount = %d, want 4", got)
	}
}
