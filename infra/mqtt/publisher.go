package mqtt

import (
	"github.com/kilianp07/matchcast/core/factory"
	"github.com/kilianp07/matchcast/core/publish"
)

var _ publish.Publisher = (*PahoClient)(nil)

func init() {
	_ = publish.Register("mqtt", publishFromConf)
}

func publishFromConf(conf map[string]any) (publish.Publisher, error) {
	var c Config
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	return NewPahoClient(c)
}
