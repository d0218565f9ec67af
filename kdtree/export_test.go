package kdtree

var (
	TreeBuilds       = treeBuilds
	TreeCacheLookups = treeCacheLookups
)
