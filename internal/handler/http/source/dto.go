package source

import (
	"time"

	"oai-harvester/internal/domain/entity"
)

// DTO is the JSON form of a registered repository.
type DTO struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	BaseURL        string         `json:"base_url"`
	OfficialURL    string         `json:"official_url"`
	Description    string         `json:"description,omitempty"`
	Publisher      string         `json:"publisher,omitempty"`
	MetadataPrefix string         `json:"metadata_prefix"`
	LastHarvestAt  *time.Time     `json:"last_harvest_at,omitempty"`
	Descriptor     *DescriptorDTO `json:"descriptor,omitempty"`
}

// DescriptorDTO is the JSON form of an Identify response.
type DescriptorDTO struct {
	RepositoryName       string     `json:"repository_name"`
	ProtocolVersion      string     `json:"protocol_version"`
	AdminEmail           string     `json:"admin_email,omitempty"`
	EarliestDatestamp    *time.Time `json:"earliest_datestamp,omitempty"`
	DeletedRecordPolicy  string     `json:"deleted_record_policy,omitempty"`
	Granularity          string     `json:"granularity,omitempty"`
	Compressions         []string   `json:"compressions,omitempty"`
	RepositoryIdentifier string     `json:"repository_identifier,omitempty"`
	Delimiter            string     `json:"delimiter,omitempty"`
	SampleIdentifier     string     `json:"sample_identifier,omitempty"`
	ToolkitTitle         string     `json:"toolkit_title,omitempty"`
	ToolkitVersion       string     `json:"toolkit_version,omitempty"`
	ToolkitURL           string     `json:"toolkit_url,omitempty"`
}

func toDTO(s *entity.Source) DTO {
	out := DTO{
		ID:             s.ID,
		Name:           s.DisplayName(),
		BaseURL:        s.BaseURL,
		OfficialURL:    s.OfficialURL,
		Description:    s.Description,
		Publisher:      s.Publisher,
		MetadataPrefix: s.Prefix(),
		LastHarvestAt:  s.LastHarvestAt,
	}
	if s.Descriptor.RepositoryName != "" {
		d := toDescriptorDTO(s.Descriptor)
		out.Descriptor = &d
	}
	return out
}

func toDescriptorDTO(d entity.SourceDescriptor) DescriptorDTO {
	out := DescriptorDTO{
		RepositoryName:       d.RepositoryName,
		ProtocolVersion:      d.ProtocolVersion,
		AdminEmail:           d.AdminEmail,
		DeletedRecordPolicy:  d.DeletedRecordPolicy,
		Granularity:          d.Granularity,
		Compressions:         d.Compressions,
		RepositoryIdentifier: d.RepositoryIdentifier,
		Delimiter:            d.Delimiter,
		SampleIdentifier:     d.SampleIdentifier,
		ToolkitTitle:         d.ToolkitTitle,
		ToolkitVersion:       d.ToolkitVersion,
		ToolkitURL:           d.ToolkitURL,
	}
	if !d.EarliestDatestamp.IsZero() {
		t := d.EarliestDatestamp
		out.EarliestDatestamp = &t
	}
	return out
}
