package fileformat

// Info describes one known file format. Extensions is the comma-separated
// list of lower-case extensions, without dots, that belong to the format.
type Info struct {
	Type        string
	IsMediaType bool
	ImdiType    string
	Extensions  string
}

// Unspecified is the IMDI resource type used when nothing better is known.
const Unspecified = "Unspecified"

// formats is scanned in order; the first entry listing an extension wins.
// "xml" is deliberately listed by both the generic XML entry and the Lexicon
// entry, and the generic one comes first.
var formats = []Info{
	{Type: "Audio", IsMediaType: true, ImdiType: "Audio", Extensions: "mp3,wav,ogg,oga,wma,aif,aiff,aifc,flac,m4a,mpa,au,opus"},
	{Type: "Video", IsMediaType: true, ImdiType: "Video", Extensions: "mp4,mov,avi,wmv,mpg,mpeg,mts,m2ts,mkv,webm,3gp,m4v,vob,flv"},
	{Type: "Image", IsMediaType: true, ImdiType: "Image", Extensions: "jpg,jpeg,gif,tif,tiff,png,bmp,dib,heic,webp"},
	{Type: "ELAN", ImdiType: "Annotation", Extensions: "eaf,pfsx"},
	{Type: "Toolbox", ImdiType: "Annotation", Extensions: "tbt"},
	{Type: "FLEx", ImdiType: "FLEx", Extensions: "flextext,fwbackup,fwdata"},
	{Type: "Transcriber", ImdiType: "Annotation", Extensions: "trs,textgrid,cha"},
	{Type: "Session", ImdiType: Unspecified, Extensions: "session"},
	{Type: "Person", ImdiType: Unspecified, Extensions: "person"},
	{Type: "Project", ImdiType: Unspecified, Extensions: "sprj"},
	{Type: "XML", ImdiType: Unspecified, Extensions: "xml"},
	{Type: "Lexicon", ImdiType: "Lexicon", Extensions: "lift,xml,dic,db"},
	{Type: "Text", ImdiType: "Document", Extensions: "txt,rtf,md"},
	{Type: "Doc", ImdiType: "Document", Extensions: "pdf,doc,docx,odt,xls,xlsx,ods,ppt,pptx,odp,epub"},
}

// Formats returns a copy of the format table in declared order.
func Formats() []Info {
	out := make([]Info, len(formats))
	copy(out, formats)
	return out
}
