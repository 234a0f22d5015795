package viewmodels

import (
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/couplestory/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

/*
ApplyFlash copies a one-time message left by a previous request onto the
view model.
*/
func (vm *BaseViewModel) ApplyFlash(flash *models.Flash) {
	if flash == nil || flash.Message == "" {
		return
	}

	vm.Message = flash.Message
	vm.IsError = flash.Kind == models.FlashError
}
