package commands_test

import (
	"errors"
	"testing"

	"taskr/internal/commands"
)

func TestParseTaskRef(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    commands.TaskRef
		wantErr string
	}{
		{name: "number", args: []string{"3"}, want: commands.TaskRef{Num: 3}},
		{name: "leading zeros", args: []string{"007"}, want: commands.TaskRef{Num: 7}},
		{name: "prefixed id", args: []string{"id:42"}, want: commands.TaskRef{ID: "42"}},
		{name: "bare id", args: []string{"a1b2"}, want: commands.TaskRef{ID: "a1b2"}},
		{name: "id with colon", args: []string{"id:x:y"}, want: commands.TaskRef{ID: "x:y"}},
		{name: "trimmed", args: []string{" 2 "}, want: commands.TaskRef{Num: 2}},
		{name: "zero", args: []string{"0"}, wantErr: "task number out of range: 0"},
		{name: "empty id", args: []string{"id:"}, wantErr: "invalid task reference: id:"},
		{name: "extra", args: []string{"1", "x"}, wantErr: "unexpected argument: x"},
		{name: "huge", args: []string{"99999999999999999999999"}, wantErr: "invalid task reference: 99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commands.ParseTaskRef(tt.args)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"  "}} {
		if _, err := commands.ParseTaskRef(args); !errors.Is(err, commands.ErrTaskRefRequired) {
			t.Errorf("args %q: expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestTaskRef_IsNumber(t *testing.T) {
	if !(commands.TaskRef{Num: 1}).IsNumber() {
		t.Error("numeric ref should be a number")
	}
	if (commands.TaskRef{ID: "1"}).IsNumber() {
		t.Error("id ref should not be a number")
	}
}
