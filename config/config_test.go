package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		// Save original env vars
		origLogLevel := os.Getenv("LOG_LEVEL")
		origCacheSize := os.Getenv("PLANNER_MATRIX_CACHE_SIZE")
		origSamples := os.Getenv("EVAL_NUM_RANDOM_SOLUTIONS")

		// Clear env vars for this test
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("PLANNER_MATRIX_CACHE_SIZE")
		os.Unsetenv("EVAL_NUM_RANDOM_SOLUTIONS")

		defer func() {
			// Restore original env vars
			if origLogLevel != "" {
				os.Setenv("LOG_LEVEL", origLogLevel)
			}
			if origCacheSize != "" {
				os.Setenv("PLANNER_MATRIX_CACHE_SIZE", origCacheSize)
			}
			if origSamples != "" {
				os.Setenv("EVAL_NUM_RANDOM_SOLUTIONS", origSamples)
			}
		}()

		cfg, err := Load()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Test default values
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 256, cfg.Planner.MatrixCacheSize)
		assert.Equal(t, 100, cfg.Evaluation.NumRandomSolutions)
		assert.Equal(t, 50, cfg.Evaluation.MatrixSamples)
		assert.Equal(t, 4, cfg.Evaluation.Workers)
		assert.Equal(t, "test_results", cfg.Evaluation.OutputDir)
		assert.EqualValues(t, 0, cfg.Evaluation.Seed)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		// Save original env vars
		origLogLevel := os.Getenv("LOG_LEVEL")
		origSeed := os.Getenv("EVAL_SEED")

		// Set test env vars
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("EVAL_SEED", "1234")

		defer func() {
			// Restore original env vars
			if origLogLevel != "" {
				os.Setenv("LOG_LEVEL", origLogLevel)
			} else {
				os.Unsetenv("LOG_LEVEL")
			}
			if origSeed != "" {
				os.Setenv("EVAL_SEED", origSeed)
			} else {
				os.Unsetenv("EVAL_SEED")
			}
		}()

		cfg, err := Load()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.EqualValues(t, 1234, cfg.Evaluation.Seed)
	})
}
