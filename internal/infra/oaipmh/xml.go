package oaipmh

import "encoding/xml"

type envelope struct {
	XMLName     xml.Name          `xml:"http://www.openarchives.org/OAI/2.0/ OAI-PMH"`
	Errors      []errorElement    `xml:"http://www.openarchives.org/OAI/2.0/ error"`
	ListRecords *listRecordsBlock `xml:"http://www.openarchives.org/OAI/2.0/ ListRecords"`
	Identify    *identifyBlock    `xml:"http://www.openarchives.org/OAI/2.0/ Identify"`
	ListSets    *listSetsBlock    `xml:"http://www.openarchives.org/OAI/2.0/ ListSets"`
}

type errorElement struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

type resumptionToken struct {
	Value            string `xml:",chardata"`
	Cursor           string `xml:"cursor,attr"`
	CompleteListSize string `xml:"completeListSize,attr"`
}

type listRecordsBlock struct {
	Records []recordElement  `xml:"http://www.openarchives.org/OAI/2.0/ record"`
	Token   *resumptionToken `xml:"http://www.openarchives.org/OAI/2.0/ resumptionToken"`
}

type recordElement struct {
	Header   *headerElement   `xml:"http://www.openarchives.org/OAI/2.0/ header"`
	Metadata *metadataElement `xml:"http://www.openarchives.org/OAI/2.0/ metadata"`
}

type headerElement struct {
	Status     string `xml:"status,attr"`
	Identifier string `xml:"http://www.openarchives.org/OAI/2.0/ identifier"`
	Datestamp  string `xml:"http://www.openarchives.org/OAI/2.0/ datestamp"`
	SetSpec    string `xml:"http://www.openarchives.org/OAI/2.0/ setSpec"`
}

type metadataElement struct {
	DC *dcElement `xml:"http://www.openarchives.org/OAI/2.0/oai_dc/ dc"`
}

type langValue struct {
	Lang  string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	Value string `xml:",chardata"`
}

type dcElement struct {
	Titles       []langValue `xml:"http://purl.org/dc/elements/1.1/ title"`
	Subjects     []langValue `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Descriptions []langValue `xml:"http://purl.org/dc/elements/1.1/ description"`
	Creators     []string    `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Publishers   []string    `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Types        []string    `xml:"http://purl.org/dc/elements/1.1/ type"`
	Formats      []string    `xml:"http://purl.org/dc/elements/1.1/ format"`
	Identifiers  []string    `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Languages    []string    `xml:"http://purl.org/dc/elements/1.1/ language"`
	Relations    []string    `xml:"http://purl.org/dc/elements/1.1/ relation"`
	Coverages    []string    `xml:"http://purl.org/dc/elements/1.1/ coverage"`
	Rights       []string    `xml:"http://purl.org/dc/elements/1.1/ rights"`
	Dates        []string    `xml:"http://purl.org/dc/elements/1.1/ date"`
	Sources      []string    `xml:"http://purl.org/dc/elements/1.1/ source"`
}

type identifyBlock struct {
	RepositoryName    string               `xml:"http://www.openarchives.org/OAI/2.0/ repositoryName"`
	BaseURL           string               `xml:"http://www.openarchives.org/OAI/2.0/ baseURL"`
	ProtocolVersion   string               `xml:"http://www.openarchives.org/OAI/2.0/ protocolVersion"`
	AdminEmails       []string             `xml:"http://www.openarchives.org/OAI/2.0/ adminEmail"`
	EarliestDatestamp string               `xml:"http://www.openarchives.org/OAI/2.0/ earliestDatestamp"`
	DeletedRecord     string               `xml:"http://www.openarchives.org/OAI/2.0/ deletedRecord"`
	Granularity       string               `xml:"http://www.openarchives.org/OAI/2.0/ granularity"`
	Compressions      []string             `xml:"http://www.openarchives.org/OAI/2.0/ compression"`
	Descriptions      []descriptionElement `xml:"http://www.openarchives.org/OAI/2.0/ description"`
}

type descriptionElement struct {
	OAIIdentifier *oaiIdentifierElement `xml:"http://www.openarchives.org/OAI/2.0/oai-identifier oai-identifier"`
	Toolkit       *toolkitElement       `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit toolkit"`
}

type oaiIdentifierElement struct {
	Scheme               string `xml:"http://www.openarchives.org/OAI/2.0/oai-identifier scheme"`
	RepositoryIdentifier string `xml:"http://www.openarchives.org/OAI/2.0/oai-identifier repositoryIdentifier"`
	Delimiter            string `xml:"http://www.openarchives.org/OAI/2.0/oai-identifier delimiter"`
	SampleIdentifier     string `xml:"http://www.openarchives.org/OAI/2.0/oai-identifier sampleIdentifier"`
}

type toolkitElement struct {
	Title  string `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit title"`
	Author struct {
		Name  string `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit name"`
		Email string `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit email"`
	} `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit author"`
	Version string `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit version"`
	URL     string `xml:"http://oai.dlib.vt.edu/OAI/metadata/toolkit URL"`
}

type listSetsBlock struct {
	Sets  []setElement     `xml:"http://www.openarchives.org/OAI/2.0/ set"`
	Token *resumptionToken `xml:"http://www.openarchives.org/OAI/2.0/ resumptionToken"`
}

type setElement struct {
	Spec string `xml:"http://www.openarchives.org/OAI/2.0/ setSpec"`
	Name string `xml:"http://www.openarchives.org/OAI/2.0/ setName"`
}
