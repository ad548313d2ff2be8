package reconcile

import (
	masker "github.com/goliatone/go-masker"
	"go.uber.org/zap/zapcore"
)

// MarshalLogObject logs a job without its password and with a masked username.
func (j Job) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", string(j.Type))
	if j.ID != "" {
		enc.AddString("id", j.ID)
	}
	if j.Username != "" {
		enc.AddString("username", maskUsername(j.Username))
	}
	if j.Hostname != "" {
		enc.AddString("hostname", j.Hostname)
	}
	enc.AddBool("password", j.Password != "")
	return nil
}

// Jobs adapts a job list for zap.Array.
type Jobs []Job

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (js Jobs) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, j := range js {
		if err := enc.AppendObject(j); err != nil {
			return err
		}
	}
	return nil
}

func maskUsername(value string) string {
	if masked, err := masker.Default.String("preserveEnds(2,2)", value); err == nil {
		return masked
	}
	return "****"
}
