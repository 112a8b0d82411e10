package build

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

type propertyTask struct {
	Name  string `mapstructure:"name"`
	Value string `mapstructure:"value"`
}

type echoTask struct {
	Message string `mapstructure:"message"`
}

type sleepTask struct {
	Duration time.Duration `mapstructure:"duration"`
}

type failTask struct {
	Message string `mapstructure:"message"`
	// If names a property; the task only fails when it is set.
	If string `mapstructure:"if"`
}

// decodeWith decodes a task's attributes into out. Durations accept "500ms" style strings.
func decodeWith(spec TaskSpec, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(spec.With); err != nil {
		return fmt.Errorf("invalid %s task at line %d: %w", spec.Kind, spec.Line, err)
	}
	return nil
}

func (e *Executor) perform(ctx context.Context, spec TaskSpec) error {
	switch spec.Kind {
	case "property":
		var p propertyTask
		if err := decodeWith(spec, &p); err != nil {
			return err
		}
		if p.Name == "" {
			return fmt.Errorf("property task at line %d has no name", spec.Line)
		}
		value := e.props.Expand(p.Value)
		if !e.props.Set(p.Name, value) {
			e.logger.Debug("property already set", "name", p.Name)
		}
		return nil

	case "echo":
		var p echoTask
		if err := decodeWith(spec, &p); err != nil {
			return err
		}
		_, err := fmt.Fprintln(e.out, e.props.Expand(p.Message))
		return err

	case "sequential":
		for _, child := range spec.Tasks {
			if err := e.runTask(ctx, child); err != nil {
				return err
			}
		}
		return nil

	case "sleep":
		var p sleepTask
		if err := decodeWith(spec, &p); err != nil {
			return err
		}
		select {
		case <-time.After(p.Duration):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}

	case "fail":
		var p failTask
		if err := decodeWith(spec, &p); err != nil {
			return err
		}
		if p.If != "" {
			if _, ok := e.props.Get(p.If); !ok {
				return nil
			}
		}
		message := e.props.Expand(p.Message)
		if message == "" {
			message = "fail task"
		}
		return fmt.Errorf("%w: %s (line %d)", ErrBuildFailed, message, spec.Line)

	default:
		e.logger.Warn("skipping unknown task kind", "kind", spec.Kind, "line", spec.Line)
		return nil
	}
}
