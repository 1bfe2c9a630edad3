package tf

import "strings"

// ClassType is one of the nine playable classes.
type ClassType int

const (
	ClassUndefined ClassType = iota
	ClassScout
	ClassSniper
	ClassSoldier
	ClassDemoman
	ClassMedic
	ClassHeavy
	ClassPyro
	ClassSpy
	ClassEngineer
)

var classNames = map[ClassType]string{
	ClassScout:    "scout",
	ClassSniper:   "sniper",
	ClassSoldier:  "soldier",
	ClassDemoman:  "demoman",
	ClassMedic:    "medic",
	ClassHeavy:    "heavy",
	ClassPyro:     "pyro",
	ClassSpy:      "spy",
	ClassEngineer: "engineer",
}

func (c ClassType) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "undefined"
}

// classConfigs maps the per-class loadout config files the game executes on
// spawn to the class being spawned as.
var classConfigs = map[string]ClassType{
	"scout.cfg":        ClassScout,
	"sniper.cfg":       ClassSniper,
	"soldier.cfg":      ClassSoldier,
	"demoman.cfg":      ClassDemoman,
	"medic.cfg":        ClassMedic,
	"heavyweapons.cfg": ClassHeavy,
	"pyro.cfg":         ClassPyro,
	"spy.cfg":          ClassSpy,
	"engineer.cfg":     ClassEngineer,
}

// ClassFromConfigName returns the class whose loadout config file matches
// the given name, or ClassUndefined if the config is not a class config.
func ClassFromConfigName(configName string) ClassType {
	return classConfigs[strings.ToLower(configName)]
}
