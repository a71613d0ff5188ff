package config

import "sync"

// OverrideProvider wraps a ConfigProvider and applies changes on top of
// whatever it loads, e.g. values given on the command line. A nil base
// provider starts from Defaults.
type OverrideProvider struct {
	provider  ConfigProvider
	overrides []func(*ConfigData)

	mu     sync.Mutex
	config *ConfigData
}

// NewOverrideProvider creates a provider that applies overrides in order.
func NewOverrideProvider(provider ConfigProvider, overrides ...func(*ConfigData)) *OverrideProvider {
	return &OverrideProvider{
		provider:  provider,
		overrides: overrides,
	}
}

// LoadConfig loads the base configuration, applies the overrides and
// validates the result.
func (o *OverrideProvider) LoadConfig() (*ConfigData, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.config != nil {
		return o.config, nil
	}

	config := Defaults()
	if o.provider != nil {
		base, err := o.provider.LoadConfig()
		if err != nil {
			return nil, err
		}
		copied := *base
		config = &copied
	}

	for _, override := range o.overrides {
		override(config)
	}
	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	o.config = config
	return config, nil
}

// GetDevice returns the device configuration with overrides applied
func (o *OverrideProvider) GetDevice() (*DeviceData, error) {
	config, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Device, nil
}

// GetProtocol returns the protocol configuration with overrides applied
func (o *OverrideProvider) GetProtocol() (*ProtocolData, error) {
	config, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &config.Protocol, nil
}

func (o *OverrideProvider) IsReadOnly() bool {
	return true
}

// Close closes the wrapped provider
func (o *OverrideProvider) Close() error {
	if o.provider == nil {
		return nil
	}
	return o.provider.Close()
}
