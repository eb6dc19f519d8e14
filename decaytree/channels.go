package decaytree

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/kinfit/particle"
)

// ParticleTypeTree is a decay topology: a tree of particle types rooted
// at a beam+target node.
type ParticleTypeTree = *Node[*particle.Type]

// Channel names an entry of the decay channel database.
type Channel int

const (
	Direct1Pi0_2g Channel = iota
	Direct2Pi0_4g
	Direct3Pi0_6g
	Eta_2g
	Omega_gEta_3g
	Omega_gPi0_3g
	EtaPrime_2g
	EtaPrime_3Pi0_6g
	EtaPrime_2Pi0Eta_6g
	EtaPrime_gOmega_ggPi0_4g
	SigmaPlusK0s_6g

	numChannels
)

var channelNames = [...]string{
	Direct1Pi0_2g:            "Direct1Pi0_2g",
	Direct2Pi0_4g:            "Direct2Pi0_4g",
	Direct3Pi0_6g:            "Direct3Pi0_6g",
	Eta_2g:                   "Eta_2g",
	Omega_gEta_3g:            "Omega_gEta_3g",
	Omega_gPi0_3g:            "Omega_gPi0_3g",
	EtaPrime_2g:              "EtaPrime_2g",
	EtaPrime_3Pi0_6g:         "EtaPrime_3Pi0_6g",
	EtaPrime_2Pi0Eta_6g:      "EtaPrime_2Pi0Eta_6g",
	EtaPrime_gOmega_ggPi0_4g: "EtaPrime_gOmega_ggPi0_4g",
	SigmaPlusK0s_6g:          "SigmaPlusK0s_6g",
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}

	return channelNames[c]
}

// Channels returns all known channels.
func Channels() []Channel {
	out := make([]Channel, numChannels)
	for i := range out {
		out[i] = Channel(i)
	}

	return out
}

// Lookup resolves a channel by name.
func Lookup(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}

	return 0, fmt.Errorf("Lookup %q: %w", name, ErrUnknownChannel)
}

// Get returns a freshly built, sorted topology for c. Callers own the
// returned tree. Unknown channels yield nil.
func Get(c Channel) ParticleTypeTree {
	t := build(c)
	if t != nil {
		t.Sort(particle.Compare)
	}

	return t
}

// BaseTree returns γp → p with nothing else attached.
func BaseTree() ParticleTypeTree {
	t := NewNode(particle.BeamProton)
	t.CreateDaughter(particle.Proton)

	return t
}

func addTo2g(n ParticleTypeTree, t *particle.Type) ParticleTypeTree {
	d := n.CreateDaughter(t)
	d.CreateDaughter(particle.Photon)
	d.CreateDaughter(particle.Photon)

	return d
}

func build(c Channel) ParticleTypeTree {
	if c == SigmaPlusK0s_6g {
		return buildSigmaPlusK0s()
	}
	t := BaseTree()
	switch c {
	case Direct1Pi0_2g:
		addTo2g(t, particle.Pi0)
	case Direct2Pi0_4g:
		addTo2g(t, particle.Pi0)
		addTo2g(t, particle.Pi0)
	case Direct3Pi0_6g:
		addTo2g(t, particle.Pi0)
		addTo2g(t, particle.Pi0)
		addTo2g(t, particle.Pi0)
	case Eta_2g:
		addTo2g(t, particle.Eta)
	case Omega_gEta_3g, Omega_gPi0_3g:
		omega := t.CreateDaughter(particle.Omega)
		omega.CreateDaughter(particle.Photon)
		if c == Omega_gEta_3g {
			addTo2g(omega, particle.Eta)
		} else {
			addTo2g(omega, particle.Pi0)
		}
	case EtaPrime_2g:
		addTo2g(t, particle.EtaPrime)
	case EtaPrime_3Pi0_6g, EtaPrime_2Pi0Eta_6g:
		etap := t.CreateDaughter(particle.EtaPrime)
		if c == EtaPrime_3Pi0_6g {
			addTo2g(etap, particle.Pi0)
		} else {
			addTo2g(etap, particle.Eta)
		}
		addTo2g(etap, particle.Pi0)
		addTo2g(etap, particle.Pi0)
	case EtaPrime_gOmega_ggPi0_4g:
		etap := t.CreateDaughter(particle.EtaPrime)
		etap.CreateDaughter(particle.Photon)
		omega := etap.CreateDaughter(particle.Omega)
		omega.CreateDaughter(particle.Photon)
		addTo2g(omega, particle.Pi0)
	default:
		return nil
	}

	return t
}

// buildSigmaPlusK0s has no spectator: the proton comes from the Σ+.
func buildSigmaPlusK0s() ParticleTypeTree {
	t := NewNode(particle.BeamProton)
	sigma := t.CreateDaughter(particle.SigmaPlus)
	sigma.CreateDaughter(particle.Proton)
	addTo2g(sigma, particle.Pi0)
	k0s := t.CreateDaughter(particle.K0s)
	addTo2g(k0s, particle.Pi0)
	addTo2g(k0s, particle.Pi0)

	return t
}

// DecayString renders a topology using the particles' print names, e.g.
// "(γ p) → [η → [γ γ] p]" for Eta_2g.
func DecayString(t ParticleTypeTree) string {
	var b strings.Builder
	writeDecay(&b, t)

	return b.String()
}

func writeDecay(b *strings.Builder, n ParticleTypeTree) {
	b.WriteString(n.Get().PrintName)
	if n.IsLeaf() {
		return
	}
	b.WriteString(" → [")
	for i, d := range n.Daughters() {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeDecay(b, d)
	}
	b.WriteByte(']')
}
