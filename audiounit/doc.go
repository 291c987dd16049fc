// Package audiounit defines the contract between a host audio graph and the
// processing components it hosts.
//
// A component is located by a [ComponentDescription] made of three
// four-character [Code] values and created through a [Registry].
// Components publish their automatable parameters in a [ParameterTree];
// hosts read and write those parameters and may observe changes with an
// [ObserverToken] that marks the writes they originated themselves.
//
// Component packages register themselves into [Default] from an init
// function, the way database/sql drivers do:
//
//	import _ "github.com/cwbudde/algo-eqfilter/audiounit/eqfilter"
package audiounit
