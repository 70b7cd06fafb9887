package validateprofilestep

import (
	"time"

	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/notify"
)

type Input struct {
	Step    int                    `json:"step"`
	Profile map[string]interface{} `json:"profile"`
}

type Output struct {
	Valid       bool              `json:"isValid"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Step        int               `json:"currentStep"`
	NextStep    int               `json:"nextStep"`
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Notifier notify.Notifier
	// Now anchors the age check. Defaults to time.Now.
	Now func() time.Time
}
