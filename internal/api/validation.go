package api

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"todo_bank/internal/utils"
)

var registerOnce sync.Once

// registerValidators 為 gin 的 binding 註冊自訂的 cpf 驗證規則
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
			return utils.ValidCPF(utils.NormalizeCPF(fl.Field().String()))
		})
	})
}
