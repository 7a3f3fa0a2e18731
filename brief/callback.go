package brief

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kasionely/korner-integrations-service/model"
)

// Callback data carried by brief keyboards, e.g. "brief_check_7_2".
const (
	CallbackPrefix = "brief_"

	callbackCancel = CallbackPrefix + "cancel"
	callbackCheck  = "check"
	callbackOther  = "other"
	callbackDone   = "done"
	callbackRadio  = "radio"
)

// IsCallbackData reports whether data belongs to a brief keyboard.
func IsCallbackData(data string) bool {
	return strings.HasPrefix(data, CallbackPrefix)
}

// EncodeAction returns the callback data for a.
func EncodeAction(a model.Action) string {
	switch a := a.(type) {
	case model.ToggleOption:
		return fmt.Sprintf("%s%s_%d_%d", CallbackPrefix, callbackCheck, a.Step, a.Index)
	case model.ToggleOther:
		return fmt.Sprintf("%s%s_%d", CallbackPrefix, callbackOther, a.Step)
	case model.Confirm:
		return fmt.Sprintf("%s%s_%d", CallbackPrefix, callbackDone, a.Step)
	case model.ChooseSingle:
		return fmt.Sprintf("%s%s_%d_%d", CallbackPrefix, callbackRadio, a.Step, a.Index)
	case model.Cancel:
		return callbackCancel
	default:
		panic(fmt.Sprintf("brief: unknown action %T", a))
	}
}

// DecodeAction parses callback data and checks it against the catalog.
// Malformed data and out of range steps or options yield model.ErrInvalidOption.
func DecodeAction(data string, c *Catalog) (model.Action, error) {
	if data == callbackCancel {
		return model.Cancel{}, nil
	}
	if !IsCallbackData(data) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidOption, data)
	}

	parts := strings.Split(strings.TrimPrefix(data, CallbackPrefix), "_")
	nums := make([]int, 0, 2)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", model.ErrInvalidOption, data)
		}
		nums = append(nums, n)
	}

	var (
		action model.Action
		want   model.QuestionKind
	)
	switch {
	case parts[0] == callbackCheck && len(nums) == 2:
		action, want = model.ToggleOption{Step: nums[0], Index: nums[1]}, model.QuestionKindMultiSelect
	case parts[0] == callbackRadio && len(nums) == 2:
		action, want = model.ChooseSingle{Step: nums[0], Index: nums[1]}, model.QuestionKindSingleSelect
	case parts[0] == callbackOther && len(nums) == 1:
		action, want = model.ToggleOther{Step: nums[0]}, model.QuestionKindMultiSelect
	case parts[0] == callbackDone && len(nums) == 1:
		action, want = model.Confirm{Step: nums[0]}, model.QuestionKindMultiSelect
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidOption, data)
	}

	q, ok := c.At(nums[0])
	if !ok || q.Kind != want {
		return nil, fmt.Errorf("%w: %q does not match question at step %d", model.ErrInvalidOption, data, nums[0])
	}
	if len(nums) == 2 && nums[1] >= len(q.Options) {
		return nil, fmt.Errorf("%w: option %d out of range for question %d", model.ErrInvalidOption, nums[1], q.ID)
	}
	if _, isOther := action.(model.ToggleOther); isOther && !q.AllowsOther {
		return nil, fmt.Errorf("%w: question %d has no other option", model.ErrInvalidOption, q.ID)
	}

	return action, nil
}
