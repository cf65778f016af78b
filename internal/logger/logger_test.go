package logger

import (
	"github.com/maxaizer/hiring-board/internal/config"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_Level_ShouldMapConfigLevels(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(log.DebugLevel, level(config.LevelDebug))
	assert.Equal(log.WarnLevel, level(config.LevelWarning))
	assert.Equal(log.ErrorLevel, level(config.LevelError))
	assert.Equal(log.InfoLevel, level("verbose"))
}

func Test_ErrorCounterHook_ShouldFireOnErrorLevelsOnly(t *testing.T) {
	levels := errorCounterHook{}.Levels()

	assert.ElementsMatch(t, []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}, levels)
}

func Test_ErrorCounterHook_ShouldCountErrorsByType(t *testing.T) {
	hook := errorCounterHook{counter: metrics.ErrorsCounter}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeDb))

	err := hook.Fire(log.WithField(ErrorTypeField, ErrorTypeDb))

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeDb)))
}
