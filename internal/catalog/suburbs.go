package catalog

type entry struct {
	id          string
	name        string
	description string
}

var melbourne = []entry{
	{"fitzroy", "Fitzroy", "Hip inner-city suburb known for its street art and cafes"},
	{"st-kilda", "St Kilda", "Beachside suburb with vibrant nightlife and Luna Park"},
	{"brighton", "Brighton", "Affluent bayside suburb with colorful beach boxes"},
	{"south-yarra", "South Yarra", "Trendy suburb with upscale shopping on Chapel Street"},
	{"carlton", "Carlton", "Cultural hub home to Melbourne University and Little Italy"},
	{"brunswick", "Brunswick", "Eclectic inner suburb with live music venues and diverse food"},
	{"richmond", "Richmond", "Former working-class suburb now trendy with Vietnamese cuisine"},
	{"toorak", "Toorak", "Prestigious suburb known for luxury shopping and dining"},
	{"collingwood", "Collingwood", "Artistic enclave with warehouses converted to lofts and galleries"},
	{"prahran", "Prahran", "Bustling suburb with Chapel Street shopping and nightlife"},
}

var melbourneExtra = []entry{
	{"williamstown", "Williamstown", "Historic seaport village with city skyline views across the bay"},
	{"northcote", "Northcote", "Laid-back northern suburb with High Street bars and the Merri Creek trail"},
	{"footscray", "Footscray", "Multicultural west with a famous market and a growing arts scene"},
	{"hawthorn", "Hawthorn", "Leafy suburb with grand old homes and Glenferrie Road shopping"},
	{"camberwell", "Camberwell", "Quiet family suburb known for its Sunday market and period homes"},
	{"elwood", "Elwood", "Relaxed beachside village with art deco flats and canal walks"},
	{"abbotsford", "Abbotsford", "Riverside suburb with a convent arts precinct and converted factories"},
	{"port-melbourne", "Port Melbourne", "Waterfront suburb with Station Pier and a long foreshore promenade"},
	{"kew", "Kew", "Established suburb with heritage mansions and Yarra river parklands"},
	{"thornbury", "Thornbury", "Low-key northern suburb with independent cafes and a historic picture theatre"},
}

// curatedImages pins one photo per suburb.
var curatedImages = map[string]string{
	"fitzroy":     "https://images.unsplash.com/photo-1514924013411-cbf25faa35bb?w=800&h=600&fit=crop",
	"st-kilda":    "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop",
	"brighton":    "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=800&h=600&fit=crop",
	"south-yarra": "https://images.unsplash.com/photo-1480714378408-67cf0d13bc1f?w=800&h=600&fit=crop",
	"carlton":     "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&h=600&fit=crop",
	"brunswick":   "https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800&h=600&fit=crop",
	"richmond":    "https://images.unsplash.com/photo-1555396273-367ea4eb4db5?w=800&h=600&fit=crop",
	"toorak":      "https://images.unsplash.com/photo-1464822759844-d150ad6d1b99?w=800&h=600&fit=crop",
	"collingwood": "https://images.unsplash.com/photo-1558618047-3c8c76ca7d13?w=800&h=600&fit=crop",
	"prahran":     "https://images.unsplash.com/photo-1448630360428-65456885c650?w=800&h=600&fit=crop",
}

const fallbackImageID = "fitzroy"
