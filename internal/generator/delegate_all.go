package generator

import (
	"github.com/toyz/cgp/internal/models"
	"github.com/toyz/cgp/internal/parser"
	"github.com/toyz/cgp/internal/tokens"
)

// DelegateAll expands `delegate_all!(Marker, Source, Target)`: every
// component marked by Marker is delegated from Target to Source.
func DelegateAll(body tokens.Stream) (tokens.Stream, error) {
	in, err := parser.ParseDelegateAll(body, body.Span())
	if err != nil {
		return nil, err
	}
	return DelegateAllFrom(in), nil
}

// DelegateAllFrom is DelegateAll for already parsed input
func DelegateAllFrom(in *models.DelegateAllInput) tokens.Stream {
	return tokens.MustQuote(`
		impl<Component> DelegateComponent<Component> for #target
		where
			Self: #marker <Component>,
		{
			type Delegate = #source;
		}
	`, tokens.Vars{
		"target": in.Target,
		"marker": in.Marker,
		"source": in.Source,
	})
}
