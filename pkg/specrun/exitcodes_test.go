package specrun

import (
	"testing"

	internalerrors "specrun/internal/errors"
	"specrun/internal/model"
)

func TestExitCodesMatchInternal(t *testing.T) {
	if ExitSuccess != internalerrors.ExitSuccess ||
		ExitFailure != internalerrors.ExitRuntimeError ||
		ExitConfigError != internalerrors.ExitConfigError {
		t.Error("public exit codes drifted from internal values")
	}
}

func TestStatusesMatchInternal(t *testing.T) {
	if StatusPassed != string(model.StatusPassed) ||
		StatusFailed != string(model.StatusFailed) ||
		StatusGenerateRequired != string(model.StatusGenerateRequired) {
		t.Error("public statuses drifted from internal values")
	}
}
