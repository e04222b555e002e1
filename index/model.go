package index

import (
	"gorm.io/plugin/soft_delete"

	"github.com/ardnew/abmeta/tree"
)

// Package is the stored record of a package.
type Package struct {
	Name        string `gorm:"uniqueIndex" json:"name"`
	Version     string `json:"version"`
	Release     string `json:"release"`
	Category    string `json:"category"`
	Section     string `json:"section"`
	Directory   string `json:"directory"`
	PkgSection  string `json:"pkg_section"`
	Description string `json:"description"`
	SpecPath    string `json:"spec_path"`
	FailArch    string `json:"fail_arch,omitempty"`
	// BLAKE3 digest of the unit the record was built from
	Digest string `json:"digest"`

	Dependencies []Dependency `gorm:"foreignKey:PackageID" json:"dependencies"`

	ID    int64  `gorm:"primarykey" json:"-"`
	Epoch uint64 `json:"epoch"`

	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0" json:"-"`
}

func (Package) TableName() string {
	return "packages"
}

// Dependency is one entry of a dependency field of a package.
type Dependency struct {
	Field   string `gorm:"index:idx_field_name" json:"field"`
	Arch    string `json:"arch"`
	Name    string `gorm:"index:idx_field_name" json:"name"`
	Relop   string `json:"relop,omitempty"`
	Version string `json:"version,omitempty"`

	ID        int64 `gorm:"primarykey"        json:"-"`
	PackageID int64 `gorm:"index:idx_package" json:"-"`
}

func (Dependency) TableName() string {
	return "dependencies"
}

// fill copies the fields of p into the record, keeping its identity.
func (r *Package) fill(p *tree.Package) {
	r.Name = p.Name
	r.Version = p.Version
	r.Release = p.Release
	r.Category = p.Category
	r.Section = p.Section
	r.Directory = p.Directory
	r.PkgSection = p.PkgSection
	r.Description = p.Description
	r.SpecPath = p.SpecPath
	r.FailArch = p.FailArch.String()
	r.Digest = p.Digest
	r.Epoch = p.Epoch
	r.Deleted = 0
}

func dependencies(id int64, p *tree.Package) []Dependency {
	var deps []Dependency

	for _, field := range tree.DependencyFields {
		byArch := *p.Field(field)

		for _, arch := range sortedKeys(byArch) {
			for _, d := range byArch[arch] {
				deps = append(deps, Dependency{
					PackageID: id,
					Field:     field,
					Arch:      arch,
					Name:      d.Name,
					Relop:     d.Relop,
					Version:   d.Version,
				})
			}
		}
	}

	return deps
}
