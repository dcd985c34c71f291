package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	validationCode    = "WORKFLOW_COMMAND_VALIDATION"
	contextCanceled   = "WORKFLOW_COMMAND_CANCELED"
	contextTimeout    = "WORKFLOW_COMMAND_TIMEOUT"
	contextErrorCode  = "WORKFLOW_COMMAND_CONTEXT"
	executeFailedCode = "WORKFLOW_COMMAND_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "workflow command is invalid").
		WithTextCode(validationCode)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow command cancelled").
			WithTextCode(contextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow command deadline exceeded").
			WithTextCode(contextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow command context error").
			WithTextCode(contextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "workflow command failed").
		WithTextCode(executeFailedCode)
}
