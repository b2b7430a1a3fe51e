/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package browser drives a real Chrome session through the third-party
// product-creation wizard. The run is a linear stage machine; any step can
// fail and reports the stage it failed at so the orchestrator can tell
// "could not log in" apart from "published but could not capture the URL".
// The driver never retries internally. Re-running a session that failed at
// or after the publish stage risks creating a second live product; that
// judgement belongs to the caller.
package browser

import "fmt"

// Stage names the step of the wizard a run is in. Stages advance strictly
// in declaration order.
type Stage string

const (
	StageInit        Stage = "init"
	StageLogin       Stage = "login"
	StageProductForm Stage = "product-form"
	StageCustomize   Stage = "navigation:customize"
	StageDescription Stage = "description"
	StageSave        Stage = "save"
	StagePublish     Stage = "publish"
	StageURLCapture  Stage = "url-capture"
)

// StageError tags a failure with the stage it happened at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func failAt(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// PastPublish reports whether the failed stage comes at or after the
// publish click, where a live product may already exist untracked.
func (e *StageError) PastPublish() bool {
	return e.Stage == StagePublish || e.Stage == StageURLCapture
}

// ManualInstructions returns the operator fallback steps for a failed
// stage. The automation is best-effort against a UI it does not control,
// so every failure comes with a human-actionable path.
func ManualInstructions(stage Stage) []string {
	switch stage {
	case StageLogin:
		return []string{
			"Check that your Gumroad email and password are saved and correct.",
			"Log in to gumroad.com manually to clear any captcha or device check.",
			"Then retry publishing, or create the product manually at gumroad.com/products/new.",
		}
	case StageURLCapture:
		return []string{
			"Your product was published but its URL could not be read back.",
			"Open your Gumroad dashboard, copy the product link, and attach it to the project manually.",
			"Do not retry publishing; that would create a duplicate product.",
		}
	case StagePublish:
		return []string{
			"Open your Gumroad dashboard and check whether the product is live.",
			"If it is live, copy its link onto the project instead of retrying.",
			"If it is not, publish it from the dashboard or retry.",
		}
	default:
		return []string{
			"Log in to gumroad.com and create the product manually:",
			"1. Go to gumroad.com/products/new",
			"2. Enter the product name and price, pick Digital product.",
			"3. Fill the description on the customize page, then Save and Publish.",
			"4. Copy the published product link onto the project.",
		}
	}
}
