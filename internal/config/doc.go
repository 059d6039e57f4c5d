// Package config loads and validates the console server configuration.
//
// # File format
//
// Configuration is YAML. Environment variables in ${VAR} form are
// expanded before parsing, and duration fields accept Go duration
// strings ("30s", "2m"):
//
//	server:
//	  http_addr: "localhost:8080"
//	completion:
//	  base_url: "https://openrouter.ai/api/v1"
//	  api_key: "${COMPLETION_API_KEY}"
//	  model: "google/gemini-2.0-flash-001"
//	  max_tokens: 500
//	  temperature: 0.7
//	  timeout: "30s"
//	escalation:
//	  keywords: ["manager", "escalate"]
//	  message_threshold: 10
//	auth:
//	  jwt_secret: "${CONSOLE_JWT_SECRET}"
//	personas:
//	  billing: |
//	    Custom billing instructions...
//	logging:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
//	  path: /metrics
//
// Unset completion fields fall back to the client defaults; an empty
// auth.jwt_secret disables API authentication.
package config
