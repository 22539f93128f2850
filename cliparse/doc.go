// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse turns layered settings into a validated Config.

# Sources

Settings come from a viper instance, lowest precedence first:

  - defaults registered by SetDefaults
  - .hibahadmin.yaml
  - HIBAH_* environment variables (dashes become underscores)
  - command-line flags bound by the cmd package

# Required

  - HIBAH_API_BASE_URL: base URL of the external API
  - HIBAH_SESSION_SECRET: HS256 secret for session tokens
  - HIBAH_CONFIRM_SALT: HMAC salt for confirmation tokens

# Rubric

The config file may replace the default scoring rubric:

	rubric:
	  - id: kebaruan
	    label: Kebaruan
	    weight: 40

Weights are checked to sum to 100 when the scoring service is built.
*/
package cliparse
