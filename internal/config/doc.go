// Package config handles configuration loading for the agentcore bridge.
//
// # Overview
//
// Configuration is built once at process start and passed into every
// component constructor. The Lambda entry points use FromEnv; the operator
// CLI loads a YAML or TOML file with Load. Both start from Default.
//
// # Configuration File
//
//	gateway:
//	  endpoint: "https://gw-abc.gateway.bedrock-agentcore.ap-northeast-1.amazonaws.com"
//	  target: "current-time-target-v2"
//	  region: "ap-northeast-1"
//	  timeout: "30s"
//
//	tools:
//	  clock:
//	    zone: "Asia/Tokyo"
//	    label: "JST"
//	  proxy:
//	    enabled: true
//	    tools: ["search_documentation", "read_documentation"]
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	gateway:
//	  endpoint: "${GATEWAY_ENDPOINT}"
//
// Unset variables expand to the empty string.
//
// # Environment Variables
//
// FromEnv reads GATEWAY_ENDPOINT, TARGET_NAME, AWS_REGION, GATEWAY_SERVICE,
// FORWARD_TIMEOUT, LOG_LEVEL, LOG_FORMAT, AWS_MCP_ENDPOINT, AWS_MCP_REGION,
// AWS_MCP_TOOLS (comma separated), PROXY_ENABLED and RESPONSE_STREAMING.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax and must be positive.
package config
