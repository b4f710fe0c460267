package normalize

// lemmaDict maps inflected forms to their dictionary base form. Tokens absent
// from the dictionary pass through unchanged, so the table only needs to cover
// forms that actually occur in academic-publication text: regular plurals of
// common research nouns plus the usual irregular and Latin/Greek plurals.
var lemmaDict = map[string]string{
	// irregular and Latin/Greek plurals
	"analyses": "analysis", "hypotheses": "hypothesis", "theses": "thesis",
	"criteria": "criterion", "phenomena": "phenomenon", "indices": "index",
	"matrices": "matrix", "vertices": "vertex", "appendices": "appendix",
	"axes": "axis", "bases": "basis", "crises": "crisis",
	"diagnoses": "diagnosis", "syntheses": "synthesis", "spectra": "spectrum",
	"media": "medium", "curricula": "curriculum", "corpora": "corpus",
	"stimuli": "stimulus", "nuclei": "nucleus", "radii": "radius",
	"foci": "focus", "fungi": "fungus", "bacteria": "bacterium",
	"alumni": "alumnus", "children": "child", "people": "person",
	"men": "man", "women": "woman", "feet": "foot", "teeth": "tooth",
	"mice": "mouse", "geese": "goose", "lives": "life", "leaves": "leaf",
	"halves": "half", "shelves": "shelf",

	// -ies plurals
	"studies": "study", "technologies": "technology", "theories": "theory",
	"strategies": "strategy", "methodologies": "methodology",
	"universities": "university", "industries": "industry",
	"companies": "company", "economies": "economy", "policies": "policy",
	"properties": "property", "communities": "community",
	"activities": "activity", "capabilities": "capability",
	"facilities": "facility", "batteries": "battery", "galaxies": "galaxy",
	"therapies": "therapy", "categories": "category", "queries": "query",
	"entities": "entity", "densities": "density", "frequencies": "frequency",
	"efficiencies": "efficiency", "energies": "energy", "bodies": "body",
	"countries": "country", "cities": "city", "families": "family",
	"libraries": "library", "surgeries": "surgery", "injuries": "injury",

	// -es plurals
	"processes": "process", "approaches": "approach", "classes": "class", "masses": "mass", "gases": "gas",
	"viruses": "virus", "businesses": "business", "stresses": "stress",
	"databases": "database", "cases": "case", "phases": "phase",
	"diseases": "disease", "increases": "increase", "decreases": "decrease",
	"responses": "response", "purposes": "purpose", "techniques": "technique",
	"machines": "machine", "engines": "engine", "turbines": "turbine",
	"vaccines": "vaccine", "genes": "gene", "pipelines": "pipeline",
	"baselines": "baseline", "guidelines": "guideline",
	"particles": "particle", "articles": "article", "vehicles": "vehicle",
	"molecules": "molecule", "samples": "sample", "examples": "example",
	"variables": "variable", "tables": "table", "roles": "role",
	"rules": "rule", "models": "model", "modules": "module",
	"structures": "structure", "features": "feature", "measures": "measure",
	"temperatures": "temperature", "pressures": "pressure",
	"procedures": "procedure", "figures": "figure", "failures": "failure",
	"mixtures": "mixture", "cultures": "culture", "languages": "language",
	"images": "image", "stages": "stage", "advantages": "advantage",
	"challenges": "challenge", "changes": "change", "ranges": "range",
	"sources": "source", "resources": "resource", "forces": "force",
	"surfaces": "surface", "devices": "device", "services": "service",
	"practices": "practice", "interfaces": "interface",
	"instances": "instance", "differences": "difference",
	"sciences": "science", "performances": "performance",
	"sequences": "sequence", "consequences": "consequence",
	"distances": "distance", "substances": "substance",

	// -s plurals of common research nouns
	"systems": "system", "methods": "method", "results": "result",
	"networks": "network", "algorithms": "algorithm", "datasets": "dataset",
	"problems": "problem", "solutions": "solution", "applications": "application",
	"publications": "publication", "authors": "author", "papers": "paper",
	"journals": "journal", "conferences": "conference", "keywords": "keyword",
	"documents": "document", "experiments": "experiment", "patients": "patient",
	"treatments": "treatment", "effects": "effect", "factors": "factor",
	"levels": "level", "materials": "material", "metals": "metal",
	"signals": "signal", "sensors": "sensor", "robots": "robot",
	"computers": "computer", "users": "user", "workers": "worker",
	"students": "student", "researchers": "researcher", "markets": "market",
	"stocks": "stock", "banks": "bank", "firms": "firm", "funds": "fund",
	"profits": "profit", "mergers": "merger", "investors": "investor",
	"hospitals": "hospital", "drugs": "drug", "doctors": "doctor",
	"trials": "trial", "cells": "cell", "proteins": "protein",
	"tumors": "tumor", "symptoms": "symptom", "infections": "infection",
	"films": "film", "movies": "movie", "songs": "song", "actors": "actor",
	"artists": "artist", "games": "game", "shows": "show", "awards": "award",
	"concerts": "concert", "albums": "album", "celebrities": "celebrity",
	"engineers": "engineer", "designs": "design", "components": "component",
	"parameters": "parameter", "equations": "equation", "functions": "function",
	"simulations": "simulation", "predictions": "prediction",
	"evaluations": "evaluation", "measurements": "measurement",
	"observations": "observation", "conclusions": "conclusion",
	"contributions": "contribution", "improvements": "improvement",
	"requirements": "requirement", "environments": "environment",
	"fuels": "fuel", "emissions": "emission", "pollutants": "pollutant",
	"years": "year", "terms": "term", "words": "word", "tokens": "token",
	"numbers": "number", "values": "value", "points": "point",
	"groups": "group", "types": "type", "forms": "form", "tests": "test",
	"tools": "tool", "fields": "field", "areas": "area", "regions": "region",
	"teams": "team", "projects": "project", "programs": "program",
	"products": "product", "costs": "cost", "rates": "rate", "risks": "risk",
	"benefits": "benefit", "impacts": "impact", "trends": "trend",
}
