package labels

import "strings"

// ArchLayerOrder is the standardized architectural-layer order used in
// tables and figures
var ArchLayerOrder = []string{
	"Meta-Architecture",
	"Platform/Infrastructure",
	"System",
	"Subsystem",
}

// metaHints in the repository description point a generic "framework"
// label at Meta-Architecture
var metaHints = []string{
	"42010", "reference architecture", "viewpoint", "viewpoints",
	"metamodel", "iso 30141", "30141", "togaf", "dodaf", "adl",
	"architecture description", "architecture framework", "reference model",
	" ra ", " ra:", " ra-", " ra/", "model-driven",
}

// platHints point a generic "framework" label at Platform/Infrastructure
var platHints = []string{
	"ros", "ros2", "kubernetes", "triton", "tensorrt", "tensorflow",
	"pytorch", "sdk", "runtime", "broker", "mqtt", "kafka", "grpc",
	"onnx", "inference", "edge", "jetson", "cuda", "rcl", "operator",
	"operator-sdk", "helm", "microservice", "deployment",
}

// normalizeAppType flattens the application_type spelling variants,
// including the Portuguese ones present in the raw sheet
func normalizeAppType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "full system", "system")
	s = strings.ReplaceAll(s, "sub system", "subsystem")
	s = strings.ReplaceAll(s, "subsistema", "subsystem")
	s = strings.ReplaceAll(s, "sistema", "system")
	s = strings.ReplaceAll(s, "plataforma", "platform")
	return s
}

// MapArchLayer maps an application_type value (plus an optional textual
// hint, usually the repository description) to one of ArchLayerOrder
func MapArchLayer(label, hint string) string {
	l := normalizeAppType(label)
	n := strings.ToLower(hint)

	switch l {
	case "system":
		return "System"
	case "subsystem":
		return "Subsystem"
	case "platform", "platform/framework", "framework/platform":
		return "Platform/Infrastructure"
	case "framework":
		for _, k := range metaHints {
			if strings.Contains(n, k) {
				return "Meta-Architecture"
			}
		}
		for _, k := range platHints {
			if strings.Contains(n, k) {
				return "Platform/Infrastructure"
			}
		}
		return "Platform/Infrastructure"
	}

	return "System"
}
