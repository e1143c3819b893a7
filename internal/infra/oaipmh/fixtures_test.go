package oaipmh

const pageOneXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <responseDate>2024-05-01T10:00:00Z</responseDate>
  <request verb="ListRecords" metadataPrefix="oai_dc">https://revista.example.org/oai</request>
  <ListRecords>
    <record>
      <header>
        <identifier>oai:revista.example.org:article/1</identifier>
        <datestamp>2024-03-10T08:15:00Z</datestamp>
        <setSpec>rev:ART</setSpec>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"
                   xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title xml:lang="es-ES">  Suelos andinos  </dc:title>
          <dc:title xml:lang="en-US">Andean soils</dc:title>
          <dc:creator>Quispe, Ana</dc:creator>
          <dc:creator>Mamani, Luis</dc:creator>
          <dc:subject xml:lang="es-ES">suelos</dc:subject>
          <dc:subject xml:lang="es-ES">   </dc:subject>
          <dc:subject xml:lang="es-ES">erosión</dc:subject>
          <dc:subject xml:lang="en-US">soils</dc:subject>
          <dc:subject>untagged</dc:subject>
          <dc:description xml:lang="es-ES">Resumen en español.</dc:description>
          <dc:description xml:lang="en-US">English abstract.</dc:description>
          <dc:publisher xml:lang="es-ES">Universidad Andina</dc:publisher>
          <dc:date>2024-03-01</dc:date>
          <dc:type>info:eu-repo/semantics/article</dc:type>
          <dc:format>application/pdf</dc:format>
          <dc:identifier>https://revista.example.org/article/view/1</dc:identifier>
          <dc:identifier>10.1234/ra.1</dc:identifier>
          <dc:source xml:lang="es-ES">Revista Andina; Vol. 3 (2024)</dc:source>
          <dc:source>2222-3333</dc:source>
          <dc:language>spa</dc:language>
          <dc:relation>https://revista.example.org/article/download/1/2</dc:relation>
          <dc:coverage>Perú</dc:coverage>
          <dc:rights>CC BY 4.0</dc:rights>
        </oai_dc:dc>
      </metadata>
    </record>
    <record>
      <header>
        <identifier>oai:revista.example.org:article/2</identifier>
        <datestamp>2024-03-11T09:00:00Z</datestamp>
        <setSpec>rev:ART</setSpec>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"
                   xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title xml:lang="en-US">Only English</dc:title>
          <dc:date>2024-03-05T00:00:00Z</dc:date>
        </oai_dc:dc>
      </metadata>
    </record>
    <resumptionToken completeListSize="3" cursor="0">
      tok1
    </resumptionToken>
  </ListRecords>
</OAI-PMH>`

const pageTwoXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListRecords>
    <record>
      <header>
        <identifier>oai:revista.example.org:article/3</identifier>
        <datestamp>2024-03-12</datestamp>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"
                   xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title xml:lang="es-ES">Tercero</dc:title>
          <dc:publisher>Acme</dc:publisher>
        </oai_dc:dc>
      </metadata>
    </record>
    <resumptionToken completeListSize="3" cursor="2"/>
  </ListRecords>
</OAI-PMH>`

const skipsXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListRecords>
    <record>
      <header status="deleted">
        <identifier>oai:x:gone</identifier>
        <datestamp>2024-01-01</datestamp>
      </header>
    </record>
    <record>
      <header>
        <identifier>oai:x:nometa</identifier>
      </header>
    </record>
    <record>
      <header>
        <identifier>   </identifier>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"/>
      </metadata>
    </record>
    <record>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"/>
      </metadata>
    </record>
    <record>
      <header>
        <identifier>oai:x:marc</identifier>
      </header>
      <metadata>
        <record xmlns="http://www.loc.gov/MARC21/slim"/>
      </metadata>
    </record>
    <record>
      <header>
        <identifier>oai:x:ok</identifier>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"/>
      </metadata>
    </record>
    <resumptionToken>   </resumptionToken>
  </ListRecords>
</OAI-PMH>`

const noRecordsMatchXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <request verb="ListRecords">https://revista.example.org/oai</request>
  <error code="noRecordsMatch">No records match the request</error>
</OAI-PMH>`

const badArgumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <error code="cannotDisseminateFormat"> marc21 is not supported </error>
</OAI-PMH>`

const latin1XML = "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
	"<OAI-PMH xmlns=\"http://www.openarchives.org/OAI/2.0/\"><ListRecords><record><header>" +
	"<identifier>oai:x:1</identifier></header><metadata>" +
	"<oai_dc:dc xmlns:oai_dc=\"http://www.openarchives.org/OAI/2.0/oai_dc/\" xmlns:dc=\"http://purl.org/dc/elements/1.1/\">" +
	"<dc:title xml:lang=\"es-ES\">Educaci\xf3n</dc:title>" +
	"</oai_dc:dc></metadata></record></ListRecords></OAI-PMH>"

const identifyXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <responseDate>2024-05-01T10:00:00Z</responseDate>
  <request verb="Identify">https://revista.example.org/index.php/ra/oai</request>
  <Identify>
    <repositoryName>Revista Andina</repositoryName>
    <baseURL>https://revista.example.org/index.php/ra/oai</baseURL>
    <protocolVersion>2.0</protocolVersion>
    <adminEmail>editor@revista.example.org</adminEmail>
    <adminEmail>soporte@revista.example.org</adminEmail>
    <earliestDatestamp>2015-06-01T12:30:00Z</earliestDatestamp>
    <deletedRecord>persistent</deletedRecord>
    <granularity>YYYY-MM-DDThh:mm:ssZ</granularity>
    <compression>gzip</compression>
    <compression>deflate</compression>
    <description>
      <oai-identifier xmlns="http://www.openarchives.org/OAI/2.0/oai-identifier">
        <scheme>oai</scheme>
        <repositoryIdentifier>revista.example.org</repositoryIdentifier>
        <delimiter>:</delimiter>
        <sampleIdentifier>oai:revista.example.org:article/1</sampleIdentifier>
      </oai-identifier>
    </description>
    <description>
      <toolkit xmlns="http://oai.dlib.vt.edu/OAI/metadata/toolkit">
        <title>Open Journal Systems</title>
        <author>
          <name>Public Knowledge Project</name>
          <email>pkp.contact@gmail.com</email>
        </author>
        <version>3.3.0.8</version>
        <URL>https://pkp.sfu.ca/ojs/</URL>
      </toolkit>
    </description>
  </Identify>
</OAI-PMH>`

const listSetsXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListSets>
    <set><setSpec>ra</setSpec><setName>Revista Andina</setName></set>
    <set><setSpec>ra:ART</setSpec><setName>Artículos</setName></set>
    <resumptionToken>sets2</resumptionToken>
  </ListSets>
</OAI-PMH>`

const listSetsLastXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <ListSets>
    <set><setSpec>ra:RES</setSpec><setName>Reseñas</setName></set>
    <resumptionToken/>
  </ListSets>
</OAI-PMH>`

const noSetHierarchyXML = `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/">
  <error code="noSetHierarchy">This repository does not support sets</error>
</OAI-PMH>`
