// Package config defines the format-agnostic model of a workflow
// definition, along with the Loader interface for producing one from
// configuration files. The builder package consumes the model; concrete
// loaders, such as the HCL one, live in their own packages.
package config
