package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/handrailjsp/Scheduling/pkg/timeutil"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义 tag
//
//	hhmm   — 12 小时制 "HH:MM"
//	period — "AM" / "PM"
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return timeutil.IsHHMM(fl.Field().String())
		})
		_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
			return timeutil.IsValidPeriod(fl.Field().String())
		})
	})
}
