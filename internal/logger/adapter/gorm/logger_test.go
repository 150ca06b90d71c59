package gorm

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func statement() (string, int64) {
	return "SELECT * FROM `recipes`", 3
}

func TestTrace(t *testing.T) {
	testCases := []struct {
		name     string
		logger   *Logger
		begin    time.Time
		err      error
		contains []string
		empty    bool
	}{
		{
			name:     "trace enabled logs statement",
			logger:   New(true),
			begin:    time.Now(),
			contains: []string{`"level":"trace"`, "SELECT * FROM `recipes`", `"rows":3`},
		},
		{
			name:   "trace disabled stays quiet",
			logger: New(false),
			begin:  time.Now(),
			empty:  true,
		},
		{
			name:     "failed statement logged as error",
			logger:   New(false),
			begin:    time.Now(),
			err:      errors.New("no such table: recipes"),
			contains: []string{`"level":"error"`, "no such table"},
		},
		{
			name:   "record not found is not an error",
			logger: New(false),
			begin:  time.Now(),
			err:    gorm.ErrRecordNotFound,
			empty:  true,
		},
		{
			name:     "slow statement logged as warning",
			logger:   New(false),
			begin:    time.Now().Add(-time.Second),
			contains: []string{`"level":"warn"`, `"threshold"`},
		},
		{
			name:   "silent mode",
			logger: New(true).LogMode(gormlogger.Silent).(*Logger),
			begin:  time.Now(),
			err:    errors.New("boom"),
			empty:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureGlobal(t)

			tc.logger.Trace(context.Background(), tc.begin, statement, tc.err)

			if tc.empty {
				assert.Empty(t, buf.String())
				return
			}

			for _, c := range tc.contains {
				assert.Contains(t, buf.String(), c)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	buf := captureGlobal(t)

	l := New(false).LogMode(gormlogger.Info)
	l.Info(context.Background(), "opened %s", "recipes.db3")
	l.Warn(context.Background(), "slow %d", 1)
	l.Error(context.Background(), "failed %s", "x")

	out := buf.String()
	assert.Contains(t, out, "opened recipes.db3")
	assert.Contains(t, out, "slow 1")
	assert.Contains(t, out, "failed x")

	buf.Reset()
	New(false).LogMode(gormlogger.Error).Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestNew(t *testing.T) {
	l := New(true)
	assert.True(t, l.TraceSQL)
	assert.Equal(t, gormlogger.Warn, l.Level)
	assert.Equal(t, defaultSlowThreshold, l.SlowThreshold)

	quiet := l.LogMode(gormlogger.Info).(*Logger)
	assert.True(t, quiet.TraceSQL, "LogMode keeps the statement tracing switch")
	assert.Equal(t, gormlogger.Info, quiet.Level)
	assert.False(t, New(false).TraceSQL)
}
