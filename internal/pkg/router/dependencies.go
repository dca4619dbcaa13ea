package router

import (
	"github.com/ManuelReschke/PixelFoxComments/app/repository"
	apiv1 "github.com/ManuelReschke/PixelFoxComments/internal/api/v1"
)

// Dependencies bundles what the HTTP layer needs from the rest of the service
type Dependencies struct {
	Repositories *repository.Repositories
	Emotions     apiv1.EmotionScheduler
	Activity     apiv1.ActivityRecorder
	Statistics   apiv1.StatisticsProvider
}
