package metrics

// Exporter selects where metrics are shipped.
type Exporter string

const (
	PrometheusExporter Exporter = "prometheus"
	OtelCollector      Exporter = "otelCollector"
)

// ExporterCfg configures one metrics exporter.
type ExporterCfg struct {
	Exporter Exporter
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// NewOtelCollectorConfig builds an OTLP gRPC exporter config.
func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ExporterCfg {
	return ExporterCfg{
		Exporter: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

// NewPrometheusConfig builds a pull-based Prometheus exporter config.
func NewPrometheusConfig() ExporterCfg {
	return ExporterCfg{Exporter: PrometheusExporter}
}

// Config holds metrics provider settings.
type Config struct {
	ServiceName string
	Exporters   []ExporterCfg
}

// OptionFn configures the metrics provider.
type OptionFn func(config Config) Config

// WithExporterConfig appends an exporter.
func WithExporterConfig(exporter ExporterCfg) OptionFn {
	return func(config Config) Config {
		config.Exporters = append(config.Exporters, exporter)
		return config
	}
}

// WithServiceName sets the service name resource attribute.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// PromServerConfig holds settings for the Prometheus scrape endpoint.
type PromServerConfig struct {
	port string
}

// PromOptionFn configures the Prometheus scrape endpoint.
type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort overrides the scrape endpoint port.
func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
